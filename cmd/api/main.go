package main

import (
	"context"
	"fmt"
	"log"

	common_api "space-comply/internal/api"
	"space-comply/internal/config"
	"space-comply/internal/database"
	"space-comply/internal/features/audit"
	cron_feature "space-comply/internal/features/cron"
	"space-comply/internal/features/document"
	"space-comply/internal/features/incident"
	"space-comply/internal/features/scoring"
	"space-comply/internal/features/workflow"
	"space-comply/internal/logger"
	"space-comply/internal/middleware"
	"space-comply/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags the constructor so Fx knows to add it to the "routes" group
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			utils.SetSecret(cfg.JWTSecret)
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// NewAuthorizationEngine builds the engine from the static definition.
// A malformed definition is a build defect, so it fails the app at startup.
func NewAuthorizationEngine() (*workflow.Engine, error) {
	return workflow.NewEngine(workflow.AuthorizationDefinition())
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repositories
			audit.NewAuditRepository,
			workflow.NewWorkflowRepository,
			incident.NewIncidentRepository,
			scoring.NewScoringRepository,

			// Static configuration
			NewAuthorizationEngine,
			workflow.NewContextBuilder,
			document.NewTemplateCatalog,
			document.NewCompletenessEngine,
			scoring.DefaultModuleWeights,

			// Initialize Services
			audit.NewAuditService,
			workflow.NewWorkflowService,
			document.NewDocumentService,
			incident.NewIncidentService,
			scoring.NewScoringService,
			cron_feature.NewCronService,

			// Interface Adapters to satisfy cross-feature dependencies
			func(c *document.TemplateCatalog) workflow.DocumentSeeder { return c },
			func(r workflow.WorkflowRepository) scoring.WorkflowSource { return scoring.NewWorkflowSource(r) },
			func(r incident.IncidentRepository) scoring.IncidentSource { return r },
			func(r scoring.ScoringRepository) scoring.AssessmentSource { return r },

			// Initialize Controllers
			audit.NewAuditController,
			workflow.NewWorkflowController,
			document.NewDocumentController,
			incident.NewIncidentController,
			scoring.NewScoringController,

			// Initialize API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(document.NewDocumentApi),
			AsRoute(incident.NewIncidentApi),
			AsRoute(scoring.NewScoringApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, cronService cron_feature.CronService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return cronService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return cronService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
