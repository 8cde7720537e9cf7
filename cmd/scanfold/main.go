// Package main はアプリケーションのエントリーポイントを提供します
package main

import (
	"os"

	"ScanFold/internal/interface/cli"
)

func main() {
	os.Exit(cli.Execute())
}
