package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/oullim/market/internal/flagx"
)

// jsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// Token validity is expressed in minutes.
type jsonConfig struct {
	EndpointAddr         string `json:"endpoint_addr"`
	DatabaseDSN          string `json:"database_dsn"`
	JWTSecret            string `json:"jwt_secret"`
	TokenValidityMinutes int64  `json:"token_validity_minutes"`
	EncryptionKeyHex     string `json:"encryption_key_hex"`
	S3RootUser           string `json:"s3_root_user"`
	S3RootPassword       string `json:"s3_root_password"`
	S3Bucket             string `json:"s3_bucket"`
	S3Region             string `json:"s3_region"`
	S3BaseEndpoint       string `json:"s3_base_endpoint"`
}

// parseJSON loads configuration values from the JSON file named by the -c or
// -config flags into the provided Config. If no file is named, nothing is
// loaded. An unreadable or invalid file panics: a server started with a
// broken config file should not come up.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &jsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.JWTSecret = c.JWTSecret
	config.TokenValidityDuration = time.Duration(c.TokenValidityMinutes) * time.Minute
	config.EncryptionKeyHex = c.EncryptionKeyHex
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
