// Package store implements HospitalStore, the persistent local data-access
// layer for the hospital client: users, appointments, admins, doctors,
// reports, and announcements in one SQLite file.
//
// Concurrency: the store holds a single SQLite connection, so statements
// are serialized by the pool. Every write additionally holds the store's
// write lock, and booking runs its slot check and insert in one transaction
// under that lock. Two concurrent bookings of the same slot therefore yield
// exactly one success and one ErrSlotTaken.
//
// Observability: every public method opens an OpenTelemetry span, records
// Prometheus metrics (see observability.StoreMetrics), and logs its outcome
// through zerolog.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/language"

	"github.com/tbourn/hospital-store/internal/config"
	"github.com/tbourn/hospital-store/internal/observability"
	"github.com/tbourn/hospital-store/internal/repo"
	"github.com/tbourn/hospital-store/internal/sysutil"
)

// Version is reported as service.version in traces.
const Version = "1.0.0"

const tracerName = "store/HospitalStore"

// HospitalStore is the data-access layer over one SQLite file.
// Create it with Open and release it with Close.
type HospitalStore struct {
	DB      *gorm.DB
	Log     zerolog.Logger
	Metrics *observability.StoreMetrics

	// Now stamps new announcements.
	Now func() time.Time
	// Locale orders ListDepartments.
	Locale language.Tag
	// Schema is what Open did to the file.
	Schema repo.SchemaResult

	mu       sync.Mutex
	closed   atomic.Bool
	validate *validator.Validate
	shutdown func(context.Context) error
}

// Option customizes Open.
type Option func(*options)

type options struct {
	logger     *zerolog.Logger
	registerer prometheus.Registerer
	now        func() time.Time
}

// WithLogger replaces the logger built from LOG_LEVEL/LOG_PRETTY.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// WithRegisterer registers store metrics on r instead of the default
// Prometheus registry.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		if r != nil {
			o.registerer = r
		}
	}
}

// WithClock replaces time.Now for announcement timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Open opens (or creates) the database at cfg.DBPath, brings it to
// cfg.SchemaVersion, and seeds the configured admin.
//
// A stored schema version lower than cfg.SchemaVersion drops and recreates
// every table; a higher one fails with repo.ErrSchemaDowngrade.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*HospitalStore, error) {
	o := options{
		registerer: prometheus.DefaultRegisterer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var log zerolog.Logger
	if o.logger != nil {
		log = *o.logger
	} else {
		log = sysutil.NewLogger(nil, cfg.LogPretty, cfg.LogLevel)
	}
	log = log.With().Str("component", "hospital_store").Logger()

	locale, err := language.Parse(cfg.CollationLocale)
	if err != nil {
		return nil, fmt.Errorf("collation locale %q: %w", cfg.CollationLocale, err)
	}

	metrics, err := observability.NewStoreMetrics(o.registerer, cfg.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, Version)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}

	db, err := repo.OpenSQLite(cfg.DBPath, repo.Options{
		BusyTimeout: cfg.BusyTimeout,
		Logger:      repo.NewGormLogger(log, cfg.SlowQuery),
		Tracing:     cfg.OTEL.Enabled,
	})
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}

	s := &HospitalStore{
		DB:       db,
		Log:      log,
		Metrics:  metrics,
		Now:      o.now,
		Locale:   locale,
		validate: newValidator(),
		shutdown: shutdown,
	}

	res, err := repo.EnsureSchema(ctx, db, cfg.SchemaVersion)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	s.Schema = res

	switch res.Action {
	case repo.SchemaUpgraded:
		s.Metrics.SchemaUpgraded()
		log.Warn().
			Int("from", res.From).
			Int("to", res.To).
			Str("path", cfg.DBPath).
			Msg("schema upgraded: all tables dropped and recreated")
	case repo.SchemaCreated:
		log.Info().Int("version", res.To).Str("path", cfg.DBPath).Msg("schema created")
	}

	if cfg.Admin.Enabled() {
		if _, err := s.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	}

	return s, nil
}

// Close waits for in-flight writes, releases the connection, and flushes
// traces. Later calls return nil; every other method returns ErrClosed.
func (s *HospitalStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := repo.Close(s.DB); err != nil {
		errs = append(errs, err)
	}
	if s.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// lockWrites takes the store write lock and returns its release.
func (s *HospitalStore) lockWrites() func() {
	waiting := s.Metrics.WaitingForWrite()
	s.mu.Lock()
	waiting()
	return s.mu.Unlock
}

// ---- per-operation instrumentation ----

type opScope struct {
	s       *HospitalStore
	name    string
	start   time.Time
	span    trace.Span
	rows    int64
	hasRows bool
}

func (s *HospitalStore) begin(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *opScope) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &opScope{s: s, name: name, start: time.Now(), span: span}
}

// affected records a rows-affected result; zero is reported as not_found.
func (o *opScope) affected(n int64) int64 {
	o.rows, o.hasRows = n, true
	return n
}

// wrap prefixes a storage error with the operation name.
func (o *opScope) wrap(err error) error {
	return fmt.Errorf("%s: %w", o.name, err)
}

func (o *opScope) end(errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	elapsed := time.Since(o.start)
	outcome := outcomeOf(err)
	if err == nil && o.hasRows && o.rows == 0 {
		outcome = observability.OutcomeNotFound
	}

	o.s.Metrics.ObserveOp(o.name, outcome, elapsed)

	o.span.SetAttributes(attribute.String("store.outcome", outcome))
	if o.hasRows {
		o.span.SetAttributes(attribute.Int64("store.rows_affected", o.rows))
	}
	if outcome == observability.OutcomeError {
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
	}
	o.span.End()

	log := o.s.Log
	switch {
	case outcome == observability.OutcomeError:
		log.Error().Err(err).Str("op", o.name).Dur("elapsed", elapsed).Msg("store operation failed")
	case errors.Is(err, ErrDuplicateUsername), errors.Is(err, ErrDuplicateAdmin):
		log.Warn().Err(err).Str("op", o.name).Msg("duplicate rejected")
	case err != nil:
		log.Info().Err(err).Str("op", o.name).Str("outcome", outcome).Msg("store operation rejected")
	default:
		ev := log.Debug().Str("op", o.name).Dur("elapsed", elapsed)
		if o.hasRows {
			ev = ev.Int64("rows", o.rows)
		}
		ev.Msg("store operation")
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, ErrSlotTaken),
		errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateAdmin):
		return observability.OutcomeConflict
	case errors.Is(err, ErrInvalidInput):
		return observability.OutcomeInvalid
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrReportNotFound):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}
