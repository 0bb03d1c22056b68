package app

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/videolearn/backend/internal/logger"
	"github.com/videolearn/backend/internal/utils"
)

// Config carries every environment-tunable knob. Values come from the
// process environment first; an optional config.yaml, if present, overlays
// its own keys on top of whatever the environment left in place.
type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MaxVideoDurationSeconds int
	SocketTimeoutSeconds    int
	WhisperTempDir          string

	ConfigFilePath string
}

// configOverlay mirrors the subset of Config that config.yaml may override.
// Zero-value fields are left untouched so the environment still wins when
// the file omits a key.
type configOverlay struct {
	JWTSecretKey            string `yaml:"jwt_secret_key"`
	MaxVideoDurationSeconds int    `yaml:"max_video_duration_seconds"`
	SocketTimeoutSeconds    int    `yaml:"socket_timeout_seconds"`
	WhisperTempDir          string `yaml:"whisper_temp_dir"`
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	maxVideoDurationSeconds := utils.GetEnvAsInt("MAX_VIDEO_DURATION_SECONDS", 0, log)
	socketTimeoutSeconds := utils.GetEnvAsInt("YTDLP_SOCKET_TIMEOUT_SECONDS", 30, log)
	whisperTempDir := utils.GetEnv("WHISPER_TEMP_DIR", os.TempDir(), log)

	cfg := Config{
		JWTSecretKey:            jwtSecretKey,
		AccessTokenTTL:          time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL:         time.Duration(refreshTokenTTLSeconds) * time.Second,
		MaxVideoDurationSeconds: maxVideoDurationSeconds,
		SocketTimeoutSeconds:    socketTimeoutSeconds,
		WhisperTempDir:          whisperTempDir,
		ConfigFilePath:          utils.GetEnv("CONFIG_FILE_PATH", "config.yaml", log),
	}

	cfg.overlayFromFile(log)
	return cfg
}

// overlayFromFile merges config.yaml on top of cfg, skipping any key the
// file leaves at its zero value. The file is optional; a missing file is
// not an error.
func (c *Config) overlayFromFile(log *logger.Logger) {
	raw, err := os.ReadFile(c.ConfigFilePath)
	if err != nil {
		return
	}

	var overlay configOverlay
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		log.Warn("failed to parse config file, ignoring overlay", "path", c.ConfigFilePath, "error", err)
		return
	}

	if overlay.JWTSecretKey != "" {
		c.JWTSecretKey = overlay.JWTSecretKey
	}
	if overlay.MaxVideoDurationSeconds != 0 {
		c.MaxVideoDurationSeconds = overlay.MaxVideoDurationSeconds
	}
	if overlay.SocketTimeoutSeconds != 0 {
		c.SocketTimeoutSeconds = overlay.SocketTimeoutSeconds
	}
	if overlay.WhisperTempDir != "" {
		c.WhisperTempDir = overlay.WhisperTempDir
	}
	log.Info("applied config file overlay", "path", c.ConfigFilePath)
}
