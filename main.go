package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxagenda/voxagenda/agent/booking"
	contractx "github.com/voxagenda/voxagenda/agent/contract"
	"github.com/voxagenda/voxagenda/agent/leads"
	"github.com/voxagenda/voxagenda/agent/orchestrator"
	"github.com/voxagenda/voxagenda/agent/schedule"
	storex "github.com/voxagenda/voxagenda/agent/store"
	memstore "github.com/voxagenda/voxagenda/agent/store/memory"
	toolx "github.com/voxagenda/voxagenda/agent/tool"
	configx "github.com/voxagenda/voxagenda/pkg/config"
	_ "github.com/voxagenda/voxagenda/pkg/logger/autoload"
	openrouterx "github.com/voxagenda/voxagenda/pkg/openrouter"
	"github.com/voxagenda/voxagenda/server"
)

type AppConfig struct {
	HTTPAddr       string `envconfig:"HTTP_ADDR" default:":8080"`
	Timezone       string `envconfig:"TIMEZONE" default:"Europe/Madrid"`
	OpenHour       int    `envconfig:"BUSINESS_OPEN_HOUR" default:"9"`
	CloseHour      int    `envconfig:"BUSINESS_CLOSE_HOUR" default:"18"`
	MeetingMinutes int    `envconfig:"DEFAULT_MEETING_MINUTES" default:"30"`
	PostgresDSN    string `envconfig:"POSTGRES_DSN"`
}

func main() {
	appCfg := configx.MustNew[AppConfig]("")

	loc, err := time.LoadLocation(appCfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", appCfg.Timezone).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leadStore, apptStore, actStore := buildStores(ctx, appCfg)

	directory, err := leads.NewDirectory(leadStore, actStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build lead directory")
	}
	ledger, err := booking.NewLedger(apptStore, directory,
		booking.WithHours(schedule.Hours{Open: appCfg.OpenHour, Close: appCfg.CloseHour}),
		booking.WithDefaultDuration(time.Duration(appCfg.MeetingMinutes)*time.Minute),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("build booking ledger")
	}
	router, err := toolx.NewRouter(ledger, directory, loc)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool router")
	}

	modelCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	llmClient := openrouterx.NewClient(*modelCfg)
	if llmClient == nil {
		log.Fatal().Msg("openrouter api key is required")
	}

	orch, err := orchestrator.New(&llmClient.Chat.Completions, router, orchestrator.Config{
		Model:        modelCfg.Model,
		ModelTimeout: modelCfg.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	httpSrv := &http.Server{
		Addr:              appCfg.HTTPAddr,
		Handler:           server.New(orch).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", appCfg.HTTPAddr).Str("model", modelCfg.Model).Msg("voice webhook listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// buildStores wires Postgres when a DSN is configured and falls back to
// the in-memory store otherwise, which is enough for local development.
func buildStores(ctx context.Context, cfg *AppConfig) (contractx.LeadStore, contractx.AppointmentStore, contractx.ActivityStore) {
	if cfg.PostgresDSN == "" {
		log.Warn().Msg("POSTGRES_DSN not set, using in-memory store")
		mem := memstore.New()
		return mem.Leads(), mem.Appointments(), mem.Activities()
	}

	db := storex.NewDB(storex.Config{
		DSN:          cfg.PostgresDSN,
		Timeout:      10 * time.Second,
		MaxOpenConns: 8,
	})
	if err := storex.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}
	return storex.NewLeadRepo(db), storex.NewAppointmentRepo(db), storex.NewActivityRepo(db)
}
