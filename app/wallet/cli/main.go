// This program provides a wallet for signing and submitting transactions to
// the fund me node.
package main

import "github.com/ardanlabs/fundme/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
