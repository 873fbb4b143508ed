package main

import (
	"github.com/spf13/cobra"

	"github.com/aescanero/netqa-router/internal/router"
)

var routeCmd = &cobra.Command{
	Use:   "route <question...>",
	Short: "Print the routing decision for a question without answering it",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRoute,
}

func init() {
	routeCmd.Flags().String("vendor", "", "vendor dialect (iosxe, junos); inferred when empty")
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	vendor, _ := cmd.Flags().GetString("vendor")
	d := svc.Router.RouteText(joinArgs(args), router.Options{Vendor: vendor})
	return printJSON(cmd.OutOrStdout(), d)
}
