package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	ginmiddleware "github.com/oapi-codegen/gin-middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tcetCapture/api"
	"tcetCapture/clients/cloudinary"
	"tcetCapture/clients/gcp"
	"tcetCapture/clients/storage"
	"tcetCapture/envvars"
	"tcetCapture/services/event"
	"tcetCapture/services/faculty"
	"tcetCapture/services/media"
	"tcetCapture/services/team"
	"tcetCapture/services/user"
	"tcetCapture/validator"
)

func main() {
	env, err := envvars.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment")
	}
	setupLogging(env)

	ctx := context.Background()
	credentials, err := envvars.ServiceAccountJSON(env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build service account credentials")
	}
	if credentials == nil {
		log.Warn().Msg("Firebase service account not set, using application default credentials")
	}

	db, err := gcp.CreateFirestore(ctx, env.FirebaseProjectID, credentials)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Firestore client")
	}
	defer db.Close()

	mediaService, closeMedia := createMediaService(ctx, env, credentials)
	defer closeMedia()

	userService := user.NewUserService(db)
	verifier := validator.NewFirebaseVerifier(validator.NewRemoteKeys(ctx, validator.GoogleKeysURL), env.FirebaseProjectID)
	gate := validator.NewGate(verifier, userService, env.BootstrapAdmins)

	server := &Server{
		Gate:           gate,
		UserService:    userService,
		EventService:   event.NewEventService(db, mediaService),
		FacultyService: faculty.NewFacultyService(db, mediaService),
		TeamService:    team.NewTeamService(db, mediaService),
		LenientArrays:  env.LenientFormArrays,
	}

	// Load OpenAPI spec file
	swagger, err := api.GetSwagger()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load swagger spec")
	}
	// Clear out the servers array in the swagger spec, that skips validating
	// that server names match. We don't know how this thing will be run.
	swagger.Servers = nil

	if envvars.IsProd(env) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := setupRouter(server, swagger)

	s := &http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf("0.0.0.0:%d", env.Port),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	log.Info().Int("port", env.Port).Str("environment", env.Environment).Msg("Starting HTTP server")
	if err := s.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

func setupLogging(env envvars.Env) {
	level, err := zerolog.ParseLevel(env.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !envvars.IsProd(env) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// createMediaService wires Cloudinary and, when a bucket is configured, the
// storage fallback. Either may be missing; uploads then fail with a 500.
func createMediaService(ctx context.Context, env envvars.Env, credentials []byte) (media.Service, func()) {
	var (
		host    media.ImageHost
		blobs   media.BlobStore
		closeFn = func() {}
	)

	if envvars.CloudinaryConfigured(env) {
		host = cloudinary.NewClient(resty.New().SetTimeout(time.Minute), cloudinary.Config{
			CloudName: env.CloudinaryCloudName,
			APIKey:    env.CloudinaryAPIKey,
			APISecret: env.CloudinaryAPISecret,
		})
	} else {
		log.Warn().Msg("Cloudinary is not configured, uploads use the storage bucket")
	}

	if env.FirebaseBucket != "" {
		client, err := gcp.CreateStorage(ctx, credentials)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create storage client, upload fallback disabled")
		} else {
			blobs = storage.NewBucket(client, env.FirebaseBucket)
			closeFn = func() { client.Close() }
		}
	}
	return media.NewService(host, blobs), closeFn
}

func setupRouter(server *Server, swagger *openapi3.T) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.MaxMultipartMemory = 32 << 20

	r.GET("/openapi", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/x-yaml", api.Spec)
	})

	validate := ginmiddleware.OapiRequestValidatorWithOptions(swagger, &ginmiddleware.Options{
		ErrorHandler: func(c *gin.Context, message string, statusCode int) {
			c.AbortWithStatusJSON(statusCode, api.ErrorResponse{Error: "Invalid request", Details: message})
		},
		Options: openapi3filter.Options{
			AuthenticationFunc: validator.Authenticate,
		},
	})

	api.RegisterHandlersWithOptions(r, server, api.GinServerOptions{
		Admin:    server.Gate.RequireAdmin(),
		Validate: validate,
		ErrorHandler: func(c *gin.Context, err error, statusCode int) {
			api.WriteError(c, err.Error(), api.NewValidationError(err.Error(), ""))
		},
	})
	return r
}
