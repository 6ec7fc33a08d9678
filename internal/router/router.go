package router

import (
	"net/http"
	"time"

	_ "pet-care-center/docs"
	mem "pet-care-center/internal/adapters/storage/memory"
	pg "pet-care-center/internal/adapters/storage/postgres"
	"pet-care-center/internal/domain/appointments"
	"pet-care-center/internal/domain/billing"
	"pet-care-center/internal/domain/boarding"
	"pet-care-center/internal/domain/catalog"
	"pet-care-center/internal/domain/owners"
	"pet-care-center/internal/domain/pets"
	"pet-care-center/internal/middleware"
	"pet-care-center/internal/platform/calendar"
	"pet-care-center/internal/platform/logger"
	"pet-care-center/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory con el catálogo base.
	DB *sqlx.DB

	Log logger.Logger

	// Now define "hoy" para fechas pasadas. Default time.Now.
	Now func() time.Time

	// Hours: default 08:00 a 18:00.
	Hours *calendar.Window

	AutoBillAppointments bool
}

type repos struct {
	owners       owners.Repository
	pets         pets.Repository
	catalog      catalog.Repository
	appointments appointments.Repository
	boarding     boarding.Repository
	billing      billing.Repository
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	hours := calendar.DefaultBusinessHours
	if opts.Hours != nil {
		hours = *opts.Hours
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recover(log))
	r.Use(middleware.RequestLogger(log))

	r.Use(middleware.AuthContext(opts.AuthVerifier, log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var rp repos
	if opts.DB != nil {
		rp = repos{
			owners:       pg.NewOwnersRepo(opts.DB),
			pets:         pg.NewPetsRepo(opts.DB),
			catalog:      pg.NewCatalogRepo(opts.DB),
			appointments: pg.NewAppointmentsRepo(opts.DB),
			boarding:     pg.NewBoardingRepo(opts.DB),
			billing:      pg.NewBillingRepo(opts.DB),
		}
	} else {
		store := mem.NewStore()
		store.SeedDefaults(now())
		rp = repos{
			owners:       mem.NewOwnerRepo(store),
			pets:         mem.NewPetRepo(store),
			catalog:      mem.NewCatalogRepo(store),
			appointments: mem.NewAppointmentRepo(store),
			boarding:     mem.NewBoardingRepo(store),
			billing:      mem.NewBillingRepo(store),
		}
		log.Warn("DB_DSN not set, using in-memory store", nil)
	}

	// Services por módulo
	ownersSvc := owners.NewService(rp.owners)
	petsSvc := pets.NewService(rp.pets, log)
	directory := catalog.NewDirectory(rp.catalog)
	apptSvc := appointments.NewService(rp.appointments, petsSvc, directory,
		appointments.WithClock(now),
		appointments.WithLogger(log),
		appointments.WithBusinessHours(hours),
		appointments.WithAutoBilling(opts.AutoBillAppointments),
	)
	boardingSvc := boarding.NewService(rp.boarding, petsSvc,
		boarding.WithClock(now),
		boarding.WithLogger(log),
	)
	billingSvc := billing.NewService(rp.billing,
		billing.WithClock(now),
		billing.WithLogger(log),
	)

	// Públicas o sólo con usuario autenticado.
	catalog.RegisterRoutes(r, directory)
	owners.RegisterRoutes(r, ownersSvc)

	// Todo lo demás exige perfil de owner.
	r.Group(func(or chi.Router) {
		or.Use(middleware.RequireOwner(ownersSvc))

		pets.RegisterRoutes(or, petsSvc)
		appointments.RegisterRoutes(or, apptSvc)
		boarding.RegisterRoutes(or, boardingSvc)
		billing.RegisterRoutes(or, billingSvc)
	})

	return r
}
