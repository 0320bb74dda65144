// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/imamik/vmpool/internal/config"
	"github.com/imamik/vmpool/internal/platform/ovirt"
	"github.com/imamik/vmpool/internal/platform/s3"
	"github.com/imamik/vmpool/internal/vmpool"
)

// ApplyOptions carries everything the apply command collected from flags.
type ApplyOptions struct {
	ConfigPath   string
	Overrides    Overrides
	Output       string
	ReportBucket string
	ReportKey    string
	MetricsFile  string
	Verbose      bool
}

// Overrides are pool fields given on the command line. Nil means not given.
type Overrides struct {
	ID          *string
	Name        *string
	State       *config.State
	Template    *string
	Cluster     *string
	Description *string
	Comment     *string
	Type        *config.PoolType
	VMPerUser   *int64
	Prestarted  *int64
	VMCount     *int64
	Wait        *bool
	Timeout     *int
	CheckMode   *bool
}

// Apply overwrites the fields of p that were given on the command line.
func (o Overrides) Apply(p *config.PoolParams) {
	if o.ID != nil {
		p.ID = o.ID
	}
	if o.Name != nil {
		p.Name = *o.Name
	}
	if o.State != nil {
		p.State = *o.State
	}
	if o.Template != nil {
		p.Template = o.Template
	}
	if o.Cluster != nil {
		p.Cluster = o.Cluster
	}
	if o.Description != nil {
		p.Description = o.Description
	}
	if o.Comment != nil {
		p.Comment = o.Comment
	}
	if o.Type != nil {
		p.Type = o.Type
	}
	if o.VMPerUser != nil {
		p.VMPerUser = o.VMPerUser
	}
	if o.Prestarted != nil {
		p.Prestarted = o.Prestarted
	}
	if o.VMCount != nil {
		p.VMCount = o.VMCount
	}
	if o.Wait != nil {
		p.Wait = o.Wait
	}
	if o.Timeout != nil {
		p.Timeout = o.Timeout
	}
	if o.CheckMode != nil {
		p.CheckMode = *o.CheckMode
	}
}

// reportUploader stores a rendered result remotely.
type reportUploader interface {
	UploadReport(ctx context.Context, bucket, key, contentType string, report []byte) (string, error)
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadParamsFile loads pool parameters from a YAML file.
	loadParamsFile = config.LoadFile

	// loadAuth reads engine credentials from the environment.
	loadAuth = config.LoadAuth

	// connect opens an engine connection.
	connect = func(ctx context.Context, auth *config.AuthConfig, timeouts *config.Timeouts) (ovirt.Client, error) {
		return ovirt.Connect(ctx, auth, ovirt.WithTimeouts(timeouts))
	}

	// newReportUploader creates the S3 client used for --report-s3-bucket.
	newReportUploader = func(ctx context.Context) (reportUploader, error) {
		return s3.NewClient(ctx, s3.OptionsFromEnv())
	}

	// newLogger builds the process logger.
	newLogger = buildLogger

	// stdout receives the rendered result.
	stdout io.Writer = os.Stdout
)

// Apply reconciles one VM pool:
//  1. Loads the pool file (if any) and applies command-line overrides
//  2. Validates the parameters before any engine call
//  3. Connects using OVIRT_* credentials and timeouts from the environment
//  4. Runs the reconciler and prints the result
//  5. Optionally writes metrics and uploads the result to S3
//
// Metrics are written even when reconciliation fails.
func Apply(ctx context.Context, opts ApplyOptions) error {
	logger, sync, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer sync()
	ctx = logr.NewContext(ctx, logger)

	params, err := loadParams(opts)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	format, err := resolveFormat(opts.Output)
	if err != nil {
		return err
	}

	auth, err := loadAuth()
	if err != nil {
		return err
	}
	timeouts := config.LoadTimeouts()

	client, err := connect(ctx, auth, timeouts)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", auth.URL, err)
	}
	defer func() {
		if err := client.Close(true); err != nil {
			logger.Error(err, "failed to close engine connection")
		}
	}()

	metrics := vmpool.NewMetrics()
	reconciler := vmpool.NewReconciler(client,
		vmpool.WithObserver(vmpool.NewLogObserver(logger)),
		vmpool.WithMetrics(metrics),
		vmpool.WithPollInterval(timeouts.PollInterval),
		vmpool.WithDefaultTimeout(timeouts.Wait),
	)

	res, reconcileErr := reconciler.Reconcile(ctx, params)

	if opts.MetricsFile != "" {
		if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Error(err, "failed to write metrics")
		}
	}
	if reconcileErr != nil {
		return reconcileErr
	}

	out, err := render(res, params.Name, format)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(stdout, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if opts.ReportBucket != "" {
		return uploadReport(ctx, opts, params.Name, format, res)
	}
	return nil
}

// loadParams returns the file parameters, or empty ones without a file,
// with command-line overrides applied.
func loadParams(opts ApplyOptions) (*config.PoolParams, error) {
	params := &config.PoolParams{}
	if opts.ConfigPath != "" {
		var err error
		params, err = loadParamsFile(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
	}
	opts.Overrides.Apply(params)
	params.ApplyDefaults()
	return params, nil
}

func uploadReport(ctx context.Context, opts ApplyOptions, name string, format outputFormat, res *vmpool.Result) error {
	// Text output is for humans; the stored report is always structured.
	if format == formatText {
		format = formatJSON
	}
	data, err := marshal(res, format)
	if err != nil {
		return err
	}

	key := opts.ReportKey
	if key == "" {
		key = fmt.Sprintf("%s.%s", name, format)
	}

	uploader, err := newReportUploader(ctx)
	if err != nil {
		return fmt.Errorf("failed to create report uploader: %w", err)
	}
	location, err := uploader.UploadReport(ctx, opts.ReportBucket, key, format.contentType(), data)
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}
	logr.FromContextOrDiscard(ctx).Info("report uploaded", "location", location)
	return nil
}

// buildLogger returns a zap-backed logr.Logger writing to stderr. Verbose
// mode uses the development encoder and enables V(1) detail.
func buildLogger(verbose bool) (logr.Logger, func(), error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	zl, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, fmt.Errorf("failed to build logger: %w", err)
	}
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }, nil
}
