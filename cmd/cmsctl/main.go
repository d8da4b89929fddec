// Copyright © 2018 One Concern

package main

import (
	"github.com/oneconcern/cmsctl/cmd/cmsctl/cmd"
)

func main() {
	cmd.Execute()
}
