package config

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Capacity agrupa todos los límites de reservas. Los valores vienen de
// variables de entorno para poder ajustarlos sin recompilar (los topes
// cambiaron más de una vez en temporada).
type Capacity struct {
	DailyCapPatio   int     // personas por día en Patio
	DailyCapEsquina int     // personas por día en Esquina
	SlotCap         int     // personas por horario en un sector
	SmallTables     int     // mesas para grupos de hasta 3
	LargeTables     int     // mesas para grupos de 4
	MaxOnlineParty  int     // grupos más grandes se derivan a WhatsApp
	LastMinuteHours float64 // ventana de flexibilidad de última hora
}

type Config struct {
	Port      string
	JWTSecret string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	Capacity Capacity
}

// Load reads the environment (godotenv is loaded in main) and applies defaults.
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "RizomaSecretDev"),

		DBUser: getEnv("DB_USER", "root"),
		DBPass: getEnv("DB_PASS", ""),
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBName: getEnv("DB_NAME", "rizoma"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		MailFrom: getEnv("MAIL_FROM", "Rizoma <reservas@rizoma.bar>"),

		Capacity: Capacity{
			DailyCapPatio:   getEnvInt("DAILY_CAP_PATIO", 40),
			DailyCapEsquina: getEnvInt("DAILY_CAP_ESQUINA", 46),
			SlotCap:         getEnvInt("SLOT_CAP", 12),
			SmallTables:     getEnvInt("SMALL_TABLES", 10),
			LargeTables:     getEnvInt("LARGE_TABLES", 4),
			MaxOnlineParty:  getEnvInt("MAX_ONLINE_PARTY", 8),
			LastMinuteHours: 5,
		},
	}
}

// DailyCapFor returns the per-day people ceiling for a sector.
func (c Capacity) DailyCapFor(sector string) int {
	if sector == "Patio" {
		return c.DailyCapPatio
	}
	return c.DailyCapEsquina
}

// InitDB opens the MySQL connection used in production.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	return gorm.Open(mysql.Open(dsn), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
