package envvars

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

const (
	Environment         = "ENVIRONMENT"
	Port                = "PORT"
	LogLevel            = "LOG_LEVEL"
	FirebaseProjectID   = "FIREBASE_PROJECT_ID"
	FirebaseClientEmail = "FIREBASE_CLIENT_EMAIL"
	FirebasePrivateKey  = "FIREBASE_PRIVATE_KEY"
	FirebaseBucket      = "FIREBASE_STORAGE_BUCKET"
	CloudinaryCloudName = "CLOUDINARY_CLOUD_NAME"
	CloudinaryAPIKey    = "CLOUDINARY_API_KEY"
	CloudinaryAPISecret = "CLOUDINARY_API_SECRET"
	BootstrapAdmins     = "BOOTSTRAP_ADMIN_EMAILS"
	LenientFormArrays   = "LENIENT_FORM_ARRAYS"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"
)

type Env struct {
	Environment string `envconfig:"ENVIRONMENT" default:"dev"`
	Port        int    `envconfig:"PORT" default:"5000"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	FirebaseProjectID   string `envconfig:"FIREBASE_PROJECT_ID" required:"true"`
	FirebaseClientEmail string `envconfig:"FIREBASE_CLIENT_EMAIL"`
	FirebasePrivateKey  string `envconfig:"FIREBASE_PRIVATE_KEY"`
	FirebaseBucket      string `envconfig:"FIREBASE_STORAGE_BUCKET"`

	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET"`

	// BootstrapAdmins are emails that get the admin role when their user record is first created.
	BootstrapAdmins []string `envconfig:"BOOTSTRAP_ADMIN_EMAILS"`
	// LenientFormArrays restores the old behavior of treating malformed JSON array fields as empty.
	LenientFormArrays bool `envconfig:"LENIENT_FORM_ARRAYS" default:"false"`
}

// Load reads the environment into an Env.
func Load() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	// Keys pasted from a service account file usually arrive with escaped newlines.
	env.FirebasePrivateKey = strings.ReplaceAll(env.FirebasePrivateKey, `\n`, "\n")
	return env, nil
}

func IsProd(env Env) bool {
	return env.Environment == ProductionEnv
}

func IsDev(env Env) bool {
	return env.Environment == DevEnv
}

func CloudinaryConfigured(env Env) bool {
	return env.CloudinaryCloudName != "" && env.CloudinaryAPIKey != "" && env.CloudinaryAPISecret != ""
}

// ServiceAccountJSON builds a service account credential document from the split
// Firebase variables. It returns nil when either part is missing so callers can
// fall back to application default credentials.
func ServiceAccountJSON(env Env) ([]byte, error) {
	if env.FirebaseClientEmail == "" || env.FirebasePrivateKey == "" {
		return nil, nil
	}
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   env.FirebaseProjectID,
		"client_email": env.FirebaseClientEmail,
		"private_key":  env.FirebasePrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}
