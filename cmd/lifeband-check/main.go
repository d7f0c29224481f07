// Command lifeband-check prints what the selected backend holds for one
// admin: portadores, their contacts, medical header and subscription.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"strings"

	"go.uber.org/zap"

	"lifeband-data/common/database"
	"lifeband-data/internal/config"
	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
	"lifeband-data/internal/store"
	"lifeband-data/internal/supabase"
)

func main() {
	adminID := flag.String("admin", "", "admin id (default: the local device admin)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	var durable store.KV
	if cfg.Store.Driver == "leveldb" {
		ldb, err := store.OpenLevelDB(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to open leveldb at %s: %v", cfg.Store.Path, err)
		}
		defer ldb.Close()
		durable = ldb
	}
	kv := store.NewCachedKV(durable, nil, zap.NewNop())

	var db *sql.DB
	if cfg.DBEnabled {
		if db, err = database.NewPostgresDB(&cfg.Database); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
	}
	var remote *supabase.Client
	if cfg.BackendConfigured() {
		remote = supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, zap.NewNop())
	}
	repos := repository.Select(repository.Backends{DB: db, Remote: remote, Configured: cfg.BackendConfigured(), Local: kv}, zap.NewNop())
	fmt.Printf("backend mode: %s\n", repos.Mode)

	if *adminID == "" {
		id, ok := kv.Get(ctx, service.LocalAdminIDKey)
		if !ok {
			log.Fatalf("No -admin given and no local admin stored under %s", service.LocalAdminIDKey)
		}
		*adminID = id
	}

	list, err := repos.Portadores.ListPortadores(ctx, *adminID)
	if err != nil {
		log.Fatalf("Failed to list portadores: %v", err)
	}

	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("Portadores of admin %s (%d)\n", *adminID, len(list))
	fmt.Println(strings.Repeat("=", 100))
	fmt.Printf("%-36s %-24s %-10s %-8s %-10s %-12s\n", "portador_id", "name", "status", "contacts", "blood", "subscription")
	fmt.Println(strings.Repeat("-", 100))

	for _, p := range list {
		contacts, err := repos.Contactos.ListContactos(ctx, p.ID)
		if err != nil {
			log.Printf("Failed to list contacts of %s: %v", p.ID, err)
			continue
		}
		blood := "-"
		if im, err := repos.InfoMedica.GetInfoMedica(ctx, p.ID); err != nil {
			log.Printf("Failed to read info medica of %s: %v", p.ID, err)
		} else if im != nil && im.BloodType != "" {
			blood = im.BloodType
		}
		sub := "-"
		if s, err := repos.Subscriptions.GetSubscriptionByPortador(ctx, p.ID); err != nil {
			log.Printf("Failed to read subscription of %s: %v", p.ID, err)
		} else if s != nil {
			sub = s.Status
		}
		fmt.Printf("%-36s %-24s %-10s %-8d %-10s %-12s\n",
			p.ID, p.FirstName+" "+p.LastName, p.LifebandStatus, len(contacts), blood, sub)
	}

	if kv.Degraded() {
		fmt.Printf("\nlocal storage degraded: %v\n", kv.LastError())
	}
}
