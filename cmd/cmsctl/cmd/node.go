package cmd

import (
	"context"

	"github.com/oneconcern/cmsctl/pkg/config"
	"github.com/oneconcern/cmsctl/pkg/gitana"
	"go.uber.org/zap"
)

func handleFindNodeByPath(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handleFindNodeByPath()")

	branch, err := inv.branch(ctx)
	if err != nil {
		return err
	}

	nodePath := inv.flags.node.path
	inv.logger.Info("find node at path: " + nodePath)
	node, err := branch.ReadNode(ctx, gitana.RootNode, nodePath, gitana.ReadOptions{Paths: true})
	if err != nil {
		inv.logger.Error("could not read node", zap.String("path", nodePath), zap.Error(err))
		return err
	}
	return inv.logNode(node)
}

func handleFindNodeByID(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handleFindNodeById()")

	branch, err := inv.branch(ctx)
	if err != nil {
		return err
	}

	nodeID := inv.flags.node.id
	inv.logger.Info("find node with id: " + nodeID)
	node, err := branch.ReadNode(ctx, nodeID, "", gitana.ReadOptions{Paths: true})
	if err != nil {
		inv.logger.Error("could not read node", zap.String("id", nodeID), zap.Error(err))
		return err
	}
	return inv.logNode(node)
}

// handleNodePathCreate creates a node from a JSON data file, at the path given by --node-path
func handleNodePathCreate(ctx context.Context, inv *invocation) error {
	inv.logger.Debug("handleNodePathCreate()")

	data, err := config.LoadDocument(appFs, inv.flags.node.dataFilePath)
	if err != nil {
		inv.logger.Error("could not load node data", zap.String("file", inv.flags.node.dataFilePath), zap.Error(err))
		return err
	}

	branch, err := inv.branch(ctx)
	if err != nil {
		return err
	}

	nodeData := gitana.Object(data)
	nodeData["_filePath"] = inv.flags.node.path
	if js, err := gitana.MarshalIndent(nodeData); err == nil {
		inv.logger.Info("create node: " + js)
	}

	node, err := branch.CreateNode(ctx, nodeData)
	if err != nil {
		inv.logger.Error("could not create node", zap.String("path", inv.flags.node.path), zap.Error(err))
		return err
	}
	return inv.logNode(node)
}
