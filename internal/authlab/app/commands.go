package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/authlab/internal/authlab/export"
	"github.com/aussiebroadwan/authlab/internal/authlab/frame"
	"github.com/aussiebroadwan/authlab/internal/authlab/publish"
	"github.com/aussiebroadwan/authlab/internal/authlab/service"
	"github.com/aussiebroadwan/authlab/internal/authlab/store"
	"github.com/aussiebroadwan/authlab/pkg/cryptox"
)

// ErrValidationFailed is returned by Validate when the report is not OK.
var ErrValidationFailed = errors.New("validation failed")

func (app *Application) printJSON(v any) error {
	enc := json.NewEncoder(app.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Migrate creates or upgrades the schema.
func (app *Application) Migrate(ctx context.Context) error {
	if err := app.initDatabase(app.cfg.ForeignKeys, true); err != nil {
		return err
	}
	tables, err := app.db.Tables().List(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(app.out, strings.Join(tables, "\n"))
	return err
}

// Generate writes a synthetic dataset and its signing key.
func (app *Application) Generate(ctx context.Context) error {
	g := app.cfg.Generate
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid generate config: %w", err)
	}
	start, _ := parseDate(g.Start)
	end, _ := parseDate(g.End)

	// orphaned rows can only be planted with enforcement off
	fk := app.cfg.ForeignKeys && !g.Orphans
	if err := app.initDatabase(fk, true); err != nil {
		return err
	}

	argon := cryptox.DefaultArgon2
	argon.Memory = g.Argon2Memory
	argon.Iterations = g.Argon2Iterations

	gen := &service.GeneratorService{Store: app.db, Logger: app.logger}
	sum, err := gen.Generate(ctx, service.GenerateConfig{
		Seed:         g.Seed,
		Users:        g.Users,
		Start:        start,
		End:          end,
		ATOScenarios: g.ATOScenarios,
		Noise:        g.Noise,
		Orphans:      g.Orphans,
		Argon2:       argon,
		Issuer:       g.Issuer,
		SessionTTL:   g.SessionTTL,
	})
	if err != nil {
		return err
	}

	if app.cfg.SigningKey != "" {
		if err := writeSigningKey(app.cfg.SigningKey, g.Seed); err != nil {
			return err
		}
		app.logger.Info("signing key written", "path", app.cfg.SigningKey, "kid", sum.KeyID)
	}
	return app.printJSON(sum)
}

// Validate prints the report and returns ErrValidationFailed when any check
// failed.
func (app *Application) Validate(ctx context.Context) error {
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	v, err := app.validator()
	if err != nil {
		return err
	}
	rep, err := v.Validate(ctx)
	if err != nil {
		return err
	}
	if err := app.printJSON(rep); err != nil {
		return err
	}
	if !rep.OK {
		return fmt.Errorf("%w: %d check(s) failed", ErrValidationFailed, len(rep.Failed()))
	}
	return nil
}

// Show prints one page of a table. NULL is printed as NULL so it stays
// distinguishable from the empty string.
func (app *Application) Show(ctx context.Context, table string, limit, offset int) error {
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	rows, err := app.db.Tables().Read(ctx, table, store.Page{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(rows.Columns, "\t"))
	cells := make([]string, len(rows.Columns))
	for _, row := range rows.Values {
		for i, v := range row {
			cells[i] = "NULL"
			if v.Valid {
				cells[i] = v.String
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// Cast casts one column and prints the summary. Under the raise policy the
// first bad value is returned as a *frame.CastError.
func (app *Application) Cast(ctx context.Context, table, column, kind string, coerce bool) error {
	k, err := frame.ParseKind(kind)
	if err != nil {
		return err
	}
	policy := frame.Raise
	if coerce {
		policy = frame.Coerce
	}

	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	f, err := frame.Read(ctx, app.db.Tables(), table)
	if err != nil {
		return err
	}
	sum, err := f.Cast(column, k, policy)
	if err != nil {
		return err
	}
	return app.printJSON(sum)
}

// Analysis is the output of the analyze command.
type Analysis struct {
	ATO      []service.Finding      `json:"ato,omitempty"`
	MFA      []service.RoleCoverage `json:"mfa,omitempty"`
	Sessions *service.SessionStats  `json:"sessions,omitempty"`
}

// Analyze runs one analysis, or all of them when which is "all".
func (app *Application) Analyze(ctx context.Context, which string) error {
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	a := &service.AnalyzerService{Store: app.db}

	var out Analysis
	all := which == "" || which == "all"
	matched := false
	if all || which == "ato" {
		matched = true
		findings, err := a.DetectATO(ctx, app.atoOptions())
		if err != nil {
			return err
		}
		out.ATO = findings
	}
	if all || which == "mfa" {
		matched = true
		coverage, err := a.MFACoverage(ctx)
		if err != nil {
			return err
		}
		out.MFA = coverage
	}
	if all || which == "sessions" {
		matched = true
		st, err := a.SessionStats(ctx)
		if err != nil {
			return err
		}
		out.Sessions = &st
	}
	if !matched {
		return fmt.Errorf("unknown analysis %q (want ato, mfa, sessions or all)", which)
	}
	return app.printJSON(out)
}

// ExportCSV writes every table into dir.
func (app *Application) ExportCSV(ctx context.Context, dir string) error {
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}
	counts, err := export.CSV(ctx, app.db.Tables(), dir)
	if err != nil {
		return err
	}
	app.logger.Info("csv export complete", "dir", dir, "tables", len(counts))
	return app.printJSON(counts)
}

// ExportPostgres copies the documented tables into PostgreSQL.
func (app *Application) ExportPostgres(ctx context.Context) error {
	if err := app.cfg.Postgres.Validate(); err != nil {
		return fmt.Errorf("invalid postgres config: %w", err)
	}
	if err := app.initDatabase(app.cfg.ForeignKeys, false); err != nil {
		return err
	}

	pool, err := export.NewPostgresPool(ctx, app.cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	exp := &export.PostgresExporter{Pool: pool, Logger: app.logger, Replace: app.cfg.Postgres.Replace}
	counts, err := exp.Export(ctx, app.db.Tables())
	if err != nil {
		return err
	}
	return app.printJSON(counts)
}

// Publish uploads the database file and prints its object key. The file is
// read as is; nothing is opened through SQLite.
func (app *Application) Publish(ctx context.Context) error {
	s := app.cfg.S3
	if err := s.Validate(); err != nil {
		return fmt.Errorf("invalid s3 config: %w", err)
	}

	client, err := publish.NewS3Client(ctx, publish.S3Config{
		Bucket:          s.Bucket,
		Prefix:          s.Prefix,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	p := publish.NewS3Publisher(client, s.Bucket, s.Prefix, app.logger)
	if s.CreateBucket {
		if err := p.EnsureBucket(ctx); err != nil {
			return err
		}
	}
	key, err := p.Publish(ctx, app.cfg.Database)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "s3://%s/%s\n", s.Bucket, key)
	return err
}
