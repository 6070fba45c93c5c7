package service

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentFS/cache"
	"github.com/GriffinCanCode/AgentFS/config"
	"github.com/GriffinCanCode/AgentFS/fserr"
	"github.com/GriffinCanCode/AgentFS/handlers"
	"github.com/GriffinCanCode/AgentFS/locks"
	"github.com/GriffinCanCode/AgentFS/logging"
	"github.com/GriffinCanCode/AgentFS/monitoring"
	"github.com/GriffinCanCode/AgentFS/paths"
	"github.com/GriffinCanCode/AgentFS/shared/id"
	"github.com/GriffinCanCode/AgentFS/storage"
	"github.com/GriffinCanCode/AgentFS/types"
)

// Service orchestrates sandboxed file operations: path resolution, per-path
// locking, read caching, format-aware decoding, and storage I/O. All methods
// are safe for concurrent use.
type Service struct {
	policy   *paths.Policy
	storage  storage.Backend
	cache    *cache.ByteCache
	locks    *locks.Manager
	registry *handlers.Registry
	logger   *logging.Logger
	metrics  *monitoring.Metrics

	instanceID string
	ownStorage bool

	patternMu sync.Mutex
	patterns  map[string]*regexp.Regexp
}

// Option configures a Service.
type Option func(*Service)

// WithStorage replaces the default local backend.
func WithStorage(b storage.Backend) Option {
	return func(s *Service) {
		s.storage = b
		s.ownStorage = false
	}
}

// WithCache replaces the default read cache.
func WithCache(c *cache.ByteCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithLogger attaches a logger. The default is a no-op logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches a metrics sink. The default is none; all recording
// calls are nil-safe.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a service sandboxed to baseDir. The directory does not need to
// exist yet; it is the containment root for every path the service touches.
func New(baseDir string, opts ...Option) (*Service, error) {
	policy, err := paths.New(baseDir)
	if err != nil {
		return nil, err
	}
	s := &Service{
		policy:     policy,
		cache:      cache.NewDefault(),
		locks:      locks.New(),
		registry:   handlers.NewRegistry(),
		logger:     logging.NewNop(),
		instanceID: uuid.NewString(),
		patterns:   make(map[string]*regexp.Regexp),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.storage == nil {
		s.storage = storage.NewLocal(0)
		s.ownStorage = true
	}
	s.logger.Info("filesystem service ready",
		zap.String("instance_id", s.instanceID),
		zap.String("sandbox_root", policy.Root()),
		zap.String("origin", string(s.storage.Origin())),
	)
	return s, nil
}

// NewFromConfig builds a service from a validated configuration: cache caps,
// local worker pool size, and the optional remote mirror backend. Options
// run after the config wiring and may override any of it.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	base := []Option{
		WithLogger(logger),
		WithCache(cache.New(cfg.Cache.MaxEntries, cfg.Cache.MaxBytes, cfg.Cache.TTL())),
	}
	root := cfg.Sandbox.Root
	if cfg.Remote.Endpoint != "" {
		if cfg.Remote.Root != "" {
			root = cfg.Remote.Root
		}
		base = append(base, WithStorage(storage.NewRemote(cfg.Remote.Endpoint, root,
			storage.WithRateLimit(cfg.Remote.RequestsPerSecond),
			storage.WithTimeout(cfg.Remote.Timeout()),
		)))
	} else {
		base = append(base, WithStorage(storage.NewLocal(cfg.Storage.Workers)))
	}
	// Backends built here are owned by the service, unlike ones injected
	// through WithStorage by a caller.
	base = append(base, func(s *Service) { s.ownStorage = true })
	return New(root, append(base, opts...)...)
}

// Close releases resources owned by the service. Backends supplied through
// WithStorage are the caller's to close.
func (s *Service) Close() {
	if s.ownStorage {
		if closer, ok := s.storage.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

// Root returns the absolute sandbox root.
func (s *Service) Root() string { return s.policy.Root() }

// InstanceID returns the identity logged at construction. Each service in a
// process gets its own.
func (s *Service) InstanceID() string { return s.instanceID }

// Describe returns a one-line description of the environment.
func (s *Service) Describe() string {
	return "The file system is a file system that provides file operations as an environment interface."
}

// CacheStats reports read-cache performance counters.
func (s *Service) CacheStats() types.CacheStats {
	return s.cache.Stats()
}

// ClearCache drops every cached entry.
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.syncCacheGauges()
}

// readRaw returns file bytes for a resolved path, preferring the cache and
// falling back to storage. The caller must hold the path lock. The returned
// source labels where the bytes actually came from.
func (s *Service) readRaw(ctx context.Context, res paths.Resolved) ([]byte, types.Source, error) {
	if data, ok := s.cache.Get(res.Relative); ok {
		s.metrics.RecordCacheHit()
		return data, types.SourceCache, nil
	}
	s.metrics.RecordCacheMiss()
	data, err := s.storage.ReadBytes(ctx, res.Absolute)
	if err != nil {
		return nil, "", err
	}
	s.cache.Put(res.Relative, data)
	s.syncCacheGauges()
	return data, s.storage.Origin(), nil
}

func (s *Service) acquire(ctx context.Context, key string) (*locks.Guard, error) {
	guard, err := s.locks.Acquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SetLockTableSize(s.locks.Len())
	}
	return guard, nil
}

func (s *Service) acquireTwo(ctx context.Context, a, b string) (*locks.Guard, *locks.Guard, error) {
	g1, g2, err := s.locks.AcquireTwo(ctx, a, b)
	if err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.SetLockTableSize(s.locks.Len())
	}
	return g1, g2, nil
}

func (s *Service) syncCacheGauges() {
	if s.metrics == nil {
		return
	}
	stats := s.cache.Stats()
	s.metrics.SetCacheUsage(stats.Entries, stats.TotalBytes)
}

// excludePattern compiles and memoizes a tree exclude expression.
func (s *Service) excludePattern(expr string) (*regexp.Regexp, error) {
	s.patternMu.Lock()
	defer s.patternMu.Unlock()
	if re, ok := s.patterns[expr]; ok {
		return re, nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fserr.NewInvalidArgument(fmt.Sprintf("invalid exclude pattern %q: %v", expr, err))
	}
	s.patterns[expr] = re
	return re, nil
}

// op tracks a single operation through metrics and the log.
type op struct {
	s     *Service
	name  string
	id    id.OpID
	timer *monitoring.Timer
}

func (s *Service) begin(name string) *op {
	return &op{s: s, name: name, id: id.NewOpID(), timer: monitoring.StartTimer(s.metrics, name)}
}

func (o *op) done(path string) {
	duration := o.timer.Stop("success")
	o.s.logger.Debug(o.name,
		zap.String("op_id", o.id.String()),
		zap.String("path", path),
		zap.Duration("duration", duration),
	)
}

// fail records the outcome and returns err unchanged so propagating call
// sites can use it inline.
func (o *op) fail(path string, err error) error {
	duration := o.timer.Stop("failure")
	if o.s.metrics != nil {
		o.s.metrics.RecordError(o.name, string(fserr.Wrap(err, path).Code))
	}
	o.s.logger.Warn(o.name+" failed",
		zap.String("op_id", o.id.String()),
		zap.String("path", path),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	return err
}
