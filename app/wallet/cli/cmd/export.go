package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	keystoreDir string
	passphrase  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the private key into an encrypted keystore file",
	Run:   exportRun,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&keystoreDir, "keystore", "k", "zblock/keystore/", "Directory for the keystore files.")
	exportCmd.Flags().StringVarP(&passphrase, "passphrase", "s", "", "Passphrase that encrypts the key.")
	exportCmd.MarkFlagRequired("passphrase")
}

func exportRun(cmd *cobra.Command, args []string) {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	ks := keystore.NewKeyStore(keystoreDir, keystore.LightScryptN, keystore.LightScryptP)
	acc, err := ks.ImportECDSA(privateKey, passphrase)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Account exported: %s\n", acc.URL.Path)
}
