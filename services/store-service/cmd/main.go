// services/store-service/cmd/main.go

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/config"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/analytics"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/catalog"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/directory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/discount"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/app/ledger"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/infra/memory"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/infra/postgres"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/ports/repository"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/transport/rest"
	"github.com/DmitryAnisimovJava/MobileStore-PetProject/services/store-service/internal/worker"
	pkgkafka "github.com/DmitryAnisimovJava/MobileStore-PetProject/shared/kafka"
	pkgrabbit "github.com/DmitryAnisimovJava/MobileStore-PetProject/shared/rabbitmq"
	"github.com/gin-gonic/gin"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/sync/errgroup"
)

var log = logging.Logger("store-service")

const shutdownTimeout = 10 * time.Second

// stores bundles the persistence ports for the chosen STORAGE_MODE.
type stores struct {
	tx       repository.TransactionManager
	items    repository.ItemStore
	accounts repository.AccountStore
	sales    repository.SellHistoryStore
	tiers    repository.PremiumStore
	close    func() error
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logging.SetLogLevel("*", cfg.LogLevel); err != nil {
		log.Warnf("invalid LOG_LEVEL %q, keeping default: %v", cfg.LogLevel, err)
	}

	//ctx is cancelled on SIGINT/SIGTERM and tells every goroutine to stop
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Errorf("failed to close storage: %v", err)
		}
	}()

	// Sale events go to Kafka when it is configured
	var publisher pkgkafka.Publisher = pkgkafka.NopPublisher{}
	common := cfg.CommonConfig
	if common.HasKafka() {
		log.Infof("publishing sale events to kafka %s topic %s", common.KAFKA_BROKER, common.KAFKA_TOPIC)
		publisher = pkgkafka.NewKafkaProducer(common.KAFKA_BROKER, common.KAFKA_TOPIC)
	}
	defer publisher.Close()

	retry := ledger.RetryConfig{MaxAttempts: cfg.LedgerMaxAttempts, Backoff: cfg.LedgerRetryBackoff}
	handlers := &rest.Handlers{
		Catalog:   catalog.NewService(st.items),
		Ledger:    ledger.NewService(st.tx, st.items, st.accounts, st.sales, publisher, retry),
		Discounts: discount.NewResolver(st.tiers),
		Analytics: analytics.NewService(st.tx, st.accounts, st.sales),
		Directory: directory.NewService(st.tx, st.accounts, st.tiers),
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           rest.NewRouter(handlers, rest.RouterOptions{AllowOrigins: cfg.CORSOrigins}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("http server listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	closeBroker := startRestockPipeline(gctx, g, cfg)

	log.Info("service running. Press Ctrl + c to stop")
	if err := g.Wait(); err != nil {
		log.Errorf("service stopped with error: %v", err)
	}
	//workers have quit, broker connections can go
	closeBroker()
	log.Info("service shutdown complete")
}

func openStores(ctx context.Context, cfg *config.StoreConfig) (*stores, error) {
	if cfg.StorageMode == config.StorageMemory {
		log.Warn("STORAGE_MODE=memory: data is lost on restart")
		m := memory.NewStore()
		return &stores{tx: m, items: m, accounts: m, sales: m, tiers: m, close: func() error { return nil }}, nil
	}

	db, err := postgres.Open(ctx, cfg.DBDriver, cfg.CommonConfig.GetDBURL(), postgres.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &stores{
		tx:       postgres.NewTxManager(db),
		items:    postgres.NewPostgresItemStore(db),
		accounts: postgres.NewPostgresAccountStore(db),
		sales:    postgres.NewPostgresSellHistoryStore(db),
		tiers:    postgres.NewPostgresPremiumStore(db),
		close:    db.Close,
	}, nil
}

// startRestockPipeline wires Kafka sale events → restock bridge → RabbitMQ →
// restock worker. Every stage is optional and skipped when its broker is not
// configured. The returned func closes the broker connections.
func startRestockPipeline(ctx context.Context, g *errgroup.Group, cfg *config.StoreConfig) func() {
	common := cfg.CommonConfig
	if !common.HasRabbitMQ() {
		log.Info("RABBITMQ_HOST not set: restock jobs disabled")
		return func() {}
	}

	rabbitClient, err := pkgrabbit.NewClient(common.GetRabbitMQURL(), cfg.RabbitPrefetch)
	if err != nil {
		log.Errorf("restock jobs disabled, rabbitmq unavailable: %v", err)
		return func() {}
	}
	if err := rabbitClient.CreateQueue(cfg.RestockQueue); err != nil {
		log.Errorf("restock jobs disabled: %v", err)
		_ = rabbitClient.Close()
		return func() {}
	}

	restockWorker := worker.NewRestockWorker(rabbitClient, cfg.RestockQueue, worker.LogJob)
	g.Go(func() error {
		// A broken job queue must not take the HTTP API down with it.
		if err := restockWorker.Run(ctx); err != nil {
			log.Errorf("restock worker stopped: %v", err)
		}
		return nil
	})

	var kafkaConsumer *pkgkafka.Consumer
	if common.HasKafka() {
		kafkaConsumer = pkgkafka.NewConsumer([]string{common.KAFKA_BROKER}, common.KAFKA_TOPIC, cfg.KafkaGroupID)
		bridge := worker.NewRestockBridge(rabbitClient, cfg.RestockQueue, cfg.LowStockThreshold)
		g.Go(func() error {
			kafkaConsumer.Start(ctx, bridge.Handle)
			return nil
		})
	}

	return func() {
		if kafkaConsumer != nil {
			if err := kafkaConsumer.Close(); err != nil {
				log.Errorf("failed to close kafka consumer: %v", err)
			}
		}
		if err := rabbitClient.Close(); err != nil {
			log.Errorf("failed to close rabbitmq connection: %v", err)
		}
	}
}
