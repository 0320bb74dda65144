package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/imamik/vmpool/cmd/vmpool/handlers"
	"github.com/imamik/vmpool/internal/config"
)

// applyFlags holds the raw flag values before they are turned into overrides.
type applyFlags struct {
	id          string
	name        string
	state       string
	template    string
	cluster     string
	description string
	comment     string
	poolType    string
	vmPerUser   int64
	prestarted  int64
	vmCount     int64
	wait        bool
	timeout     int
	check       bool
}

// Apply returns the command that reconciles one VM pool.
//
// Flags:
//
//	--file, -f: Path to the pool YAML file (optional when --name is given)
//	--output, -o: text, json or yaml (default: text on a terminal, json otherwise)
//
// Environment variables:
//
//	OVIRT_URL, OVIRT_USERNAME, OVIRT_PASSWORD: engine credentials (required)
//	OVIRT_CAFILE, OVIRT_INSECURE: TLS settings
func Apply() *cobra.Command {
	var (
		f    applyFlags
		opts handlers.ApplyOptions
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create, update or remove a VM pool",
		Long: `Reconcile an oVirt VM pool towards the declared state.

Pool fields come from the YAML file given with --file. Field flags override
the file; the nested vm object can only be set in the file.

Examples:
  # Create or update the pool described in pool.yaml
  vmpool apply -f pool.yaml

  # Preview changes without touching the engine
  vmpool apply -f pool.yaml --check

  # Remove a pool and wait until its VMs are gone
  vmpool apply --name pool1 --state absent --wait`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Overrides = f.overrides(cmd.Flags())
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "file", "f", "", "Path to the pool YAML file")
	flags.StringVarP(&opts.Output, "output", "o", "", "Output format: text, json or yaml")
	flags.StringVar(&opts.ReportBucket, "report-s3-bucket", "", "Upload the result to this S3 bucket")
	flags.StringVar(&opts.ReportKey, "report-s3-key", "", "Object key of the uploaded result (default: <name>.<format>)")
	flags.StringVar(&opts.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	bindPoolFlags(flags, &f)

	return cmd
}

// bindPoolFlags registers the pool field flags on fs.
func bindPoolFlags(fs *pflag.FlagSet, f *applyFlags) {
	fs.StringVar(&f.id, "id", "", "Pool ID; when set the pool is looked up by ID")
	fs.StringVar(&f.name, "name", "", "Pool name")
	fs.StringVar(&f.state, "state", "", "Desired state: present or absent")
	fs.StringVar(&f.template, "template", "", "Template the pool VMs are based on")
	fs.StringVar(&f.cluster, "cluster", "", "Cluster the pool belongs to")
	fs.StringVar(&f.description, "description", "", "Pool description")
	fs.StringVar(&f.comment, "comment", "", "Pool comment")
	fs.StringVar(&f.poolType, "type", "", "Pool type: automatic or manual")
	fs.Int64Var(&f.vmPerUser, "vm-per-user", 0, "Maximum number of VMs a single user can take")
	fs.Int64Var(&f.prestarted, "prestarted", 0, "Number of VMs kept running")
	fs.Int64Var(&f.vmCount, "vm-count", 0, "Number of VMs in the pool")
	fs.BoolVar(&f.wait, "wait", false, "Wait until pool VMs settle (or are gone on removal)")
	fs.IntVar(&f.timeout, "timeout", 0, "Wait timeout in seconds (default 180)")
	fs.BoolVar(&f.check, "check", false, "Report what would change without changing anything")
}

// overrides returns only the flags the user actually set.
func (f *applyFlags) overrides(flags *pflag.FlagSet) handlers.Overrides {
	var o handlers.Overrides
	str := func(name, v string) *string {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}
	num := func(name string, v int64) *int64 {
		if !flags.Changed(name) {
			return nil
		}
		return &v
	}

	o.ID = str("id", f.id)
	o.Name = str("name", f.name)
	o.Template = str("template", f.template)
	o.Cluster = str("cluster", f.cluster)
	o.Description = str("description", f.description)
	o.Comment = str("comment", f.comment)
	o.VMPerUser = num("vm-per-user", f.vmPerUser)
	o.Prestarted = num("prestarted", f.prestarted)
	o.VMCount = num("vm-count", f.vmCount)

	if flags.Changed("state") {
		s := config.State(f.state)
		o.State = &s
	}
	if flags.Changed("type") {
		t := config.PoolType(f.poolType)
		o.Type = &t
	}
	if flags.Changed("wait") {
		o.Wait = &f.wait
	}
	if flags.Changed("timeout") {
		o.Timeout = &f.timeout
	}
	if flags.Changed("check") {
		o.CheckMode = &f.check
	}
	return o
}
