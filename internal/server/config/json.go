package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "168h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	SMTPHost              string         `json:"smtp_host"`
	SMTPPort              int            `json:"smtp_port"`
	SMTPUsername          string         `json:"smtp_username"`
	SMTPPassword          string         `json:"smtp_password"`
	SMTPSender            string         `json:"smtp_sender"`
	RateLimitRPS          float64        `json:"rate_limit_rps"`
	RateLimitBurst        int            `json:"rate_limit_burst"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path is taken from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. Only fields present in the file override the
// current values, so a partial file keeps the defaults for the rest. If the
// file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUsername != "" {
		config.SMTPUsername = c.SMTPUsername
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.SMTPSender != "" {
		config.SMTPSender = c.SMTPSender
	}
	if c.RateLimitRPS != 0 {
		config.RateLimitRPS = c.RateLimitRPS
	}
	if c.RateLimitBurst != 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
}
