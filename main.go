/*
Copyright © 2025 etui contributors
*/
package main

import (
	"github.com/davrell/etui/cmd"
	"github.com/davrell/etui/internal/logging"
)

func main() {
	defer logging.Sync() // nolint:errcheck
	cmd.Execute()
}
