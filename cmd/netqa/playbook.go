package main

import (
	"github.com/spf13/cobra"

	"github.com/aescanero/netqa-router/internal/playbook"
)

var playbookCmd = &cobra.Command{
	Use:   "playbook [scenario]",
	Short: "Render a troubleshooting playbook, or list scenarios when none is given",
	Example: `  netqa playbook
  netqa playbook bgp-neighbor-down --peer 192.0.2.1 --vendor junos
  netqa playbook mtu-blackhole --destination 198.51.100.7 --mtu 9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlaybook,
}

func init() {
	f := playbookCmd.Flags()
	f.String("vendor", "", "vendor dialect (default iosxe)")
	f.String("interface", "", "interface name")
	f.String("peer", "", "peer address")
	f.String("destination", "", "destination address")
	f.Int("port", 0, "TCP port")
	f.String("area", "", "OSPF area")
	f.String("auth", "", "authentication: md5, sha or none")
	f.Int("mtu", 0, "MTU in bytes")

	rootCmd.AddCommand(playbookCmd)
}

func runPlaybook(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return printJSON(cmd.OutOrStdout(), svc.Engine.Scenarios())
	}

	f := cmd.Flags()
	var in playbook.Context
	in.Vendor, _ = f.GetString("vendor")
	in.Interface, _ = f.GetString("interface")
	in.Peer, _ = f.GetString("peer")
	in.Destination, _ = f.GetString("destination")
	in.Port, _ = f.GetInt("port")
	in.Area, _ = f.GetString("area")
	in.Auth, _ = f.GetString("auth")
	in.MTU, _ = f.GetInt("mtu")

	res, err := svc.Engine.Run(cmd.Context(), args[0], in)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
