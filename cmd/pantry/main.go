package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pantrylab/pantry/internal/adapter/storage"
	"github.com/pantrylab/pantry/internal/adapter/transport"
	"github.com/pantrylab/pantry/internal/cache"
	"github.com/pantrylab/pantry/internal/core/domain"
	"github.com/pantrylab/pantry/internal/core/service"
	"github.com/pantrylab/pantry/internal/graph"
	"github.com/pantrylab/pantry/internal/notify"
	"github.com/pantrylab/pantry/internal/platform/config"
	"github.com/pantrylab/pantry/internal/port"
)

type appConfig struct {
	APIEndpoint string        `env:"PANTRY_API_ENDPOINT" envDefault:"http://localhost:8080/api/graphql"`
	StoragePath string        `env:"PANTRY_STORAGE_PATH" envDefault:"pantry.db"`
	RedisAddr   string        `env:"PANTRY_REDIS_ADDR"`
	CacheTTL    time.Duration `env:"PANTRY_CACHE_TTL" envDefault:"3m"`
}

func main() {
	var cfg appConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kv, cleanup, err := openKeyValue(ctx, cfg)
	if err != nil {
		config.Exitf("open preference storage: %v", err)
	}
	defer cleanup()

	notifier := notify.NewCenter(func(active []notify.Notification) {
		for _, n := range active {
			log.Printf("[%s] %s: %s", n.Level, n.Title, n.Message)
		}
	})

	cacheCfg := cache.DefaultConfig()
	cacheCfg.TTL = cfg.CacheTTL
	store, err := cache.New(cacheCfg)
	if err != nil {
		config.Exitf("build cache: %v", err)
	}
	store.RegisterEffect(graph.DeleteAggregates.Name, cache.InvalidateDeletedAggregates)

	exec := cache.NewExecutor(store, transport.NewHTTPExecutor(cfg.APIEndpoint, nil))

	prefs := service.NewPreferenceStore(kv, notifier)
	sessions := service.NewSessionService(exec, prefs, notifier)
	progress := service.NewProgress(nil)

	var session service.Session
	if err := progress.Submit(func() error {
		session = sessions.Authenticate(ctx)
		return nil
	}); err != nil {
		config.Exitf("authenticate: %v", err)
	}

	if !session.Authenticated {
		config.Exitf("not authenticated, log in at %s", service.LoginRedirect(""))
	}
	log.Printf("authenticated as %s", session.Viewer.Email)

	providers := make([]domain.Provider, 0, len(session.Providers))
	for _, info := range session.Providers {
		providers = append(providers, info.Provider)
	}
	if prefs.ReconcileProviders(providers) {
		log.Println("preferences corrected against server providers")
	}

	cart, err := service.NewCartService(ctx, exec, prefs, notifier, session.InitialCart)
	if err != nil {
		config.Exitf("initialise cart: %v", err)
	}

	aggregates := service.NewAggregateService(exec, prefs)
	catalog := service.NewCatalogService(exec)

	if err := runCommand(ctx, os.Args[1:], cart, aggregates, catalog, sessions, progress, notifier); err != nil {
		config.Exitf("%v", err)
	}
}

func openKeyValue(ctx context.Context, cfg appConfig) (port.KeyValue, func(), error) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Printf("preferences stored in redis at %s", cfg.RedisAddr)
		return storage.NewRedisStore(client, "pantry"), func() { client.Close() }, nil
	}

	store, err := storage.OpenSQLite(cfg.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("preferences stored in %s", cfg.StoragePath)
	return store, func() { store.Close() }, nil
}

func runCommand(
	ctx context.Context,
	args []string,
	cart *service.CartService,
	aggregates *service.AggregateService,
	catalog *service.CatalogService,
	sessions *service.SessionService,
	progress *service.Progress,
	notifier port.Notifier,
) error {
	if len(args) == 0 {
		args = []string{"cart"}
	}

	switch args[0] {
	case "cart":
		printCart(cart.Snapshot())
		return nil

	case "refresh":
		return progress.Submit(func() error {
			snapshot, err := cart.RefreshContent(ctx)
			if err != nil {
				return err
			}
			printCart(snapshot)
			return nil
		})

	case "add":
		if len(args) != 4 {
			return fmt.Errorf("usage: add <provider> <product-id> <quantity>")
		}
		provider, err := service.VerifyProvider(args[1], notifier)
		if err != nil {
			return err
		}
		quantity, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[3])
		}
		return progress.Submit(func() error {
			snapshot, err := cart.SetCartContent(ctx, service.RawProductItem{
				Provider:  provider,
				ProductID: args[2],
				Quantity:  quantity,
			})
			if err != nil {
				return err
			}
			printCart(snapshot)
			return nil
		})

	case "note":
		if len(args) != 3 {
			return fmt.Errorf("usage: note <text> <quantity>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		return progress.Submit(func() error {
			snapshot, err := cart.SetCartContent(ctx, service.NoteItem{
				Content:  args[1],
				Quantity: quantity,
			})
			if err != nil {
				return err
			}
			printCart(snapshot)
			return nil
		})

	case "remove":
		if len(args) != 3 {
			return fmt.Errorf("usage: remove <provider> <product-id>")
		}
		provider, err := service.VerifyProvider(args[1], notifier)
		if err != nil {
			return err
		}
		return progress.Submit(func() error {
			snapshot, err := cart.RemoveCartContent(ctx, service.RawProductItem{
				Provider:  provider,
				ProductID: args[2],
			})
			if err != nil {
				return err
			}
			printCart(snapshot)
			return nil
		})

	case "aggregates":
		return progress.Submit(func() error {
			list, err := aggregates.List(ctx)
			if err != nil {
				return err
			}
			for _, agg := range list {
				fmt.Printf("%d\t%s\t%d ingredients\t%s\n", agg.ID, agg.Name, len(agg.Ingredients), formatCents(agg.PriceCents))
			}
			return nil
		})

	case "aggregates-delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: aggregates-delete <id> [id...]")
		}
		ids := make([]int64, 0, len(args)-1)
		for _, raw := range args[1:] {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid aggregate id %q", raw)
			}
			ids = append(ids, id)
		}
		return progress.Submit(func() error {
			deleted, err := aggregates.Delete(ctx, ids)
			if err != nil {
				return err
			}
			log.Printf("deleted %d aggregates", deleted)
			return nil
		})

	case "promotions":
		if len(args) != 2 {
			return fmt.Errorf("usage: promotions <provider>")
		}
		provider, err := service.VerifyProvider(args[1], notifier)
		if err != nil {
			return err
		}
		return progress.Submit(func() error {
			categories, err := catalog.Promotions(ctx, provider)
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Printf("%s\t%s\t%d items\n", category.ID, category.Name, len(category.LimitedItems))
			}
			return nil
		})

	case "product":
		if len(args) != 3 {
			return fmt.Errorf("usage: product <provider> <product-id>")
		}
		provider, err := service.VerifyProvider(args[1], notifier)
		if err != nil {
			return err
		}
		return progress.Submit(func() error {
			product, err := catalog.Product(ctx, provider, args[2])
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\t%s", product.Name, formatCents(product.PriceInfo.DisplayPriceCents), product.UnitQuantity.Unit)
			if !product.Available {
				fmt.Print("\t(unavailable)")
			}
			fmt.Println()
			return nil
		})

	case "logout":
		return sessions.Logout(ctx)

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printCart(snapshot *domain.CartSnapshot) {
	if snapshot == nil || len(snapshot.Contents) == 0 {
		fmt.Println("cart is empty")
		return
	}

	for _, line := range snapshot.Contents {
		switch l := line.(type) {
		case domain.RawProductLine:
			fmt.Printf("%dx\t%s\t(%s)\t%s\n", l.Quantity, l.Product.Name, l.Product.ProviderInfo.Provider, formatCents(l.Product.DisplayPriceCents))
		case domain.AggregateLine:
			fmt.Printf("%dx\t%s\t(aggregate, %d candidates)\t%s\n", l.Quantity, l.Aggregate.Name, len(l.Aggregate.Ingredients), formatCents(l.Aggregate.PriceCents))
		case domain.NoteLine:
			fmt.Printf("%dx\t%s\t(note)\n", l.Quantity, l.Note)
		}
	}

	if len(snapshot.Tallies) > 0 {
		tallies := make([]string, 0, len(snapshot.Tallies))
		for _, tally := range snapshot.Tallies {
			tallies = append(tallies, fmt.Sprintf("%s %s", tally.Provider, formatCents(tally.PriceCents)))
		}
		fmt.Printf("totals: %s\n", strings.Join(tallies, ", "))
	}
}

func formatCents(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
