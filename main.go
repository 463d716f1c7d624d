package main

import (
	"context"
	"fmt"
	"os"

	"CareDesk/config"
	"CareDesk/config/authorization"
	"CareDesk/config/db"
	"CareDesk/config/jwt"
	"CareDesk/controllers"
	"CareDesk/jobs"
	"CareDesk/llm"
	"CareDesk/migrations"
	"CareDesk/models"
	"CareDesk/repository"
	"CareDesk/routes"
	"CareDesk/server"
	"CareDesk/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

var (
	startServer = server.Start
	isTest      = false
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded")
	}
	root := rootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "caredesk",
		Short:         "Clinic appointment booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(cmd *cobra.Command, _ []string) error { return serve() },
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  func(cmd *cobra.Command, _ []string) error { return serve() },
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations and exit",
			RunE:  func(cmd *cobra.Command, _ []string) error { return migrate() },
		},
		createAdminCommand(),
	)
	return root
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	defaultopts := server.GetDefaultOptions(cfg)

	options := server.Options{
		Config:           cfg,
		MongoEnabled:     defaultopts.MongoEnabled,
		CacheEnabled:     defaultopts.CacheEnabled,
		WebServerEnabled: defaultopts.WebServerEnabled,
		ShutdownTimeout:  defaultopts.ShutdownTimeout,

		MigrationEnabled: !isTest,
		MigrationHandler: func(ctx context.Context, rt *server.Runtime) error {
			if isTest {
				return nil
			}
			return migrations.Run(ctx, rt.DB)
		},

		JobsEnabled: !isTest,
		JobsHandler: func(rt *server.Runtime) (func(), error) {
			if isTest {
				return nil, nil
			}
			svc := wire(rt)
			c, err := jobs.StartScheduler(rt.Config.RosterRefreshSchedule, svc.Doctors, repository.NewAppointmentRepository(rt.DB))
			if err != nil {
				return nil, err
			}
			return func() { <-c.Stop().Done() }, nil
		},

		WebServerPreHandler: func(r *gin.Engine, rt *server.Runtime) {
			svc := wire(rt)
			guard := authorization.NewGuard(tokenManager(rt.Config), rt.Cache)
			health := func(ctx context.Context) error { return db.Ping(ctx, rt.Client) }
			routes.Routes(r, controllers.New(svc, guard, health))
		},
	}
	return startServer(options)
}

func migrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return startServer(server.Options{
		Config:           cfg,
		MongoEnabled:     true,
		MigrationEnabled: true,
		MigrationHandler: func(ctx context.Context, rt *server.Runtime) error {
			return migrations.Run(ctx, rt.DB)
		},
	})
}

func createAdminCommand() *cobra.Command {
	var req models.CreateAdminRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return startServer(server.Options{
				Config:           cfg,
				MongoEnabled:     true,
				CacheEnabled:     true,
				MigrationEnabled: true,
				MigrationHandler: func(ctx context.Context, rt *server.Runtime) error {
					return migrations.Run(ctx, rt.DB)
				},
				TaskHandler: func(ctx context.Context, rt *server.Runtime) error {
					admin, err := wire(rt).Auth.CreateAdmin(ctx, req)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", admin.Email, admin.ID.Hex())
					return nil
				},
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func tokenManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)
}

// wire builds the services over the connected runtime. The symptom relay
// stays disabled without an API key.
func wire(rt *server.Runtime) *services.Services {
	var ai llm.Client
	switch {
	case !rt.Config.AIEnabled():
	case rt.Config.OpenAIBaseURL != "":
		oaConfig := openai.DefaultConfig(rt.Config.OpenAIAPIKey)
		oaConfig.BaseURL = rt.Config.OpenAIBaseURL
		ai = llm.NewOpenAIClientWithConfig(oaConfig, rt.Config.OpenAIModel)
	default:
		ai = llm.NewOpenAIClient(rt.Config.OpenAIAPIKey, rt.Config.OpenAIModel)
	}
	return services.New(
		repository.NewUserRepository(rt.DB),
		repository.NewAppointmentRepository(rt.DB),
		rt.Cache,
		tokenManager(rt.Config),
		ai,
	)
}
