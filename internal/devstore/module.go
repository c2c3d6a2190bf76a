package devstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stepski011/DevStore/internal/devstore/entity"
	"github.com/stepski011/DevStore/internal/devstore/event"
	"github.com/stepski011/DevStore/internal/devstore/inbound"
	"github.com/stepski011/DevStore/internal/devstore/schema"
	"github.com/stepski011/DevStore/internal/devstore/store"
	"github.com/stepski011/DevStore/internal/devstore/usecase"
	"github.com/stepski011/DevStore/internal/pkg/pkgblob"
	"github.com/stepski011/DevStore/internal/pkg/pkgconfig"
	"github.com/stepski011/DevStore/internal/pkg/pkggeo"
	"github.com/stepski011/DevStore/internal/pkg/pkghash"
	"github.com/stepski011/DevStore/internal/pkg/pkghook"
	"github.com/stepski011/DevStore/internal/pkg/pkgjwt"
	"github.com/stepski011/DevStore/internal/pkg/pkgmail"
	"github.com/stepski011/DevStore/internal/pkg/pkgrouter"
	"github.com/stepski011/DevStore/internal/pkg/pkgroutine"
	"github.com/stepski011/DevStore/internal/pkg/pkguid"
	"github.com/stepski011/DevStore/internal/pkg/pkgvalidator"
)

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
	ID     pkguid.StringID

	// DB selects the postgres collections. Nil keeps everything in memory.
	DB *sql.DB
	// AWS is required by the s3 upload and ses mail drivers only.
	AWS *aws.Config
}

// Module is the wired devstore application.
type Module struct {
	Usecase *usecase.Usecase

	blob     pkgblob.Storage
	consumer *event.AggregateConsumer
}

// New wires devstore and mounts its HTTP API on dep.Router.
func New(dep Dependency) (func(context.Context) error, error) {
	m, err := Build(dep)
	if err != nil {
		return nil, err
	}

	inbound.RegisterHTTPEndpoint(dep.Router, m.Usecase, inbound.Config{
		CookieTTL:    time.Duration(dep.Config.GetInt("jwt.cookie_expire_days")) * 24 * time.Hour,
		SecureCookie: dep.Config.GetString("env") == "production",
	})

	if local, ok := m.blob.(*pkgblob.Local); ok {
		dep.Router.Static("/uploads", http.Dir(local.Dir()))
	}

	return m.Close, nil
}

// Build wires storage, hooks, the aggregate consumer and the usecase without
// mounting any endpoint.
func Build(dep Dependency) (*Module, error) {
	cfg := dep.Config
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	bootcamps, courses, reviews, users, err := collections(cfg, dep.DB)
	if err != nil {
		return nil, err
	}

	blob, err := blobStorage(cfg, dep.AWS)
	if err != nil {
		return nil, err
	}

	mailer, err := mailSender(cfg, dep.AWS)
	if err != nil {
		return nil, err
	}

	secret := cfg.GetString("jwt.secret")
	if secret == "" {
		return nil, errors.New("jwt.secret is required")
	}

	geocoder := pkggeo.NewMapQuest(
		cfg.GetString("geocoder.base_url"),
		cfg.GetString("geocoder.api_key"),
		cfg.GetDuration("geocoder.timeout"),
	)

	locks := pkgroutine.NewKeyedMutex()
	bus := event.NewBus(int(cfg.GetInt("aggregate.buffer")))
	consumer := event.NewAggregateConsumer(bus, &event.Aggregator{
		Bootcamps: bootcamps,
		Courses:   courses,
		Reviews:   reviews,
		Locks:     locks,
	}, event.ConsumerConfig{
		Workers:     int(cfg.GetInt("aggregate.workers")),
		MaxRetries:  int(cfg.GetInt("aggregate.max_retries")),
		BaseBackoff: cfg.GetDuration("aggregate.backoff"),
	})

	rels := schema.NewRelationships()
	rels.Register(schema.Relationship{
		ParentType: (*entity.Bootcamp)(nil).EntityType(),
		ChildType:  (*entity.Course)(nil).EntityType(),
		ForeignKey: "bootcamp",
		Remove:     courses.DeleteMany,
	})
	rels.Register(schema.Relationship{
		ParentType: (*entity.Bootcamp)(nil).EntityType(),
		ChildType:  (*entity.Review)(nil).EntityType(),
		ForeignKey: "bootcamp",
		Remove:     reviews.DeleteMany,
	})

	cost := int(cfg.GetInt("hash.cost"))
	if cost == 0 {
		cost = pkghash.DefaultCost
	}
	hasher := pkghash.NewBcrypt(cost)

	registry := pkghook.NewRegistry()
	schema.Register(registry, schema.Dependency{
		Validator:     pkgvalidator.New(),
		Geocoder:      geocoder,
		Hasher:        hasher,
		Events:        bus,
		ID:            dep.ID,
		Relationships: rels,
	})
	registry.Seal()

	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Bootcamps: bootcamps,
		Courses:   courses,
		Reviews:   reviews,
		Users:     users,
		Lifecycle: registry,
		Geocoder:  geocoder,
		Blob:      blob,
		Mailer:    mailer,
		Tokens:    pkgjwt.NewSigner(secret, cfg.GetDuration("jwt.expire")),
		Passwords: hasher,
		Locks:     locks,
		ID:        dep.ID,
		Upload:    usecase.UploadConfig{MaxSize: cfg.GetInt("upload.max_size")},
	})

	return &Module{Usecase: uc, blob: blob, consumer: consumer}, nil
}

// Close drains pending aggregate events.
func (m *Module) Close(ctx context.Context) error {
	return m.consumer.Stop(ctx)
}

func collections(cfg pkgconfig.Config, db *sql.DB) (
	store.Collection[entity.Bootcamp],
	store.Collection[entity.Course],
	store.Collection[entity.Review],
	store.Collection[entity.User],
	error,
) {
	switch driver := cfg.GetString("database.driver"); driver {
	case "", "memory":
		slog.Info("devstore uses in-memory collections")
		return store.NewInMemoryCollection[entity.Bootcamp](),
			store.NewInMemoryCollection[entity.Course](),
			store.NewInMemoryCollection[entity.Review](),
			store.NewInMemoryCollection[entity.User](),
			nil
	case "postgres":
		if db == nil {
			return nil, nil, nil, nil, errors.New("database.driver is postgres but no database is connected")
		}
		return store.NewPostgresCollection[entity.Bootcamp](db, "bootcamps"),
			store.NewPostgresCollection[entity.Course](db, "courses"),
			store.NewPostgresCollection[entity.Review](db, "reviews"),
			store.NewPostgresCollection[entity.User](db, "users"),
			nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown database.driver %q", driver)
	}
}

func blobStorage(cfg pkgconfig.Config, awsCfg *aws.Config) (pkgblob.Storage, error) {
	switch driver := cfg.GetString("upload.driver"); driver {
	case "", "local":
		local, err := pkgblob.NewLocal(cfg.GetString("upload.path"))
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		if awsCfg == nil {
			return nil, errors.New("upload.driver is s3 but aws is not configured")
		}
		return pkgblob.NewS3(s3.NewFromConfig(*awsCfg), cfg.GetString("upload.bucket"), cfg.GetString("upload.prefix")), nil
	default:
		return nil, fmt.Errorf("unknown upload.driver %q", driver)
	}
}

func mailSender(cfg pkgconfig.Config, awsCfg *aws.Config) (pkgmail.Mailer, error) {
	switch driver := cfg.GetString("mail.driver"); driver {
	case "", "log":
		return pkgmail.Log{}, nil
	case "ses":
		if awsCfg == nil {
			return nil, errors.New("mail.driver is ses but aws is not configured")
		}
		return pkgmail.NewSES(sesv2.NewFromConfig(*awsCfg), cfg.GetString("mail.from_name"), cfg.GetString("mail.from_email")), nil
	default:
		return nil, fmt.Errorf("unknown mail.driver %q", driver)
	}
}
