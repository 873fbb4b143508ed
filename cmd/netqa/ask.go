package main

import (
	"github.com/spf13/cobra"

	"github.com/aescanero/netqa-router/internal/dispatch"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer a question and print the response envelope",
	Example: `  netqa ask what is ospf
  netqa ask --vendor junos bgp neighbor down 192.0.2.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("vendor", "", "vendor dialect (iosxe, junos); inferred when empty")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	vendor, _ := cmd.Flags().GetString("vendor")
	env := svc.Dispatcher.Dispatch(cmd.Context(), joinArgs(args), dispatch.Options{Vendor: vendor})
	return printJSON(cmd.OutOrStdout(), env)
}
