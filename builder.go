package magiclink

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/OhACD/magiclink/internal/rate"
	"github.com/OhACD/magiclink/mailer"
	"github.com/OhACD/magiclink/record"
	"github.com/OhACD/magiclink/token"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine's methods are called.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	db     *gorm.DB
	store  record.Store
	mail   mailer.Mailer
	sink   AuditSink

	built bool
}

// New starts a builder with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration. The config is cloned; later
// mutation of cfg does not affect the builder.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the envelope signing secret without replacing the rest of
// the config.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Secret = cloneBytes(secret)
	return b
}

// WithRedis sets the counter-store client used by the rate limiter. The
// client is shared with the caller and must outlive the engine.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithDatabase backs the token record store with a gorm handle. The caller
// owns migration: AutoMigrate(&record.TokenRecord{}).
func (b *Builder) WithDatabase(db *gorm.DB) *Builder {
	b.db = db
	return b
}

// WithRecordStore injects a custom record store, overriding WithDatabase.
// Tests use this with [record.NewMemoryStore].
func (b *Builder) WithRecordStore(store record.Store) *Builder {
	b.store = store
	return b
}

// WithMailer enables the SendLoginLink/SendVerificationLink helpers.
// Without a mailer the engine still issues and redeems; only the send
// helpers refuse to run.
func (b *Builder) WithMailer(m mailer.Mailer) *Builder {
	b.mail = m
	return b
}

// WithAuditSink receives audit events when auditing is enabled in config.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.sink = sink
	return b
}

// Build validates the configuration and wires the engine. A builder can
// only be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	store := b.store
	if store == nil {
		if b.db == nil {
			return nil, errors.New("record store required: provide WithDatabase or WithRecordStore")
		}
		store = record.NewGormStore(b.db)
	}

	codec, err := token.NewCodec(token.Config{
		Secret: cloneBytes(cfg.Secret),
		Leeway: cfg.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		codec:   codec,
		store:   store,
		limiter: rate.New(b.redis),
		mailer:  b.mail,
		audit:   newAuditDispatcher(cfg.Audit, b.sink),
		metrics: NewMetrics(cfg.Metrics),
		now:     time.Now,
	}

	b.built = true

	return engine, nil
}
