package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Keys      APIKeys
	Ai        AIConfig
	Ingestion IngestionConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini   string
	EmbedDocsTopic string
}

type AIConfig struct {
	RouterModel     string
	PlannerModel    string
	AnalystModel    string
	CitationModel   string
	FormatterModel  string
	SimpleRAGModel  string
	EmbeddingModel  string
	EmbeddingDim    int
	SimpleTopK      int
	HunterTopK      int
	MemoryThreshold float64
	CacheTTLSeconds int
}

type IngestionConfig struct {
	DataDir      string
	ChunkSize    int
	ChunkOverlap int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini:   getEnv("GOOGLE_GEMINI_API_KEY", ""),
			EmbedDocsTopic: getEnv("EMBED_DOCUMENTS_TOPIC_NAME", "EMBED_DOCUMENTS"),
		},
		Ai: AIConfig{
			RouterModel:     getEnv("ROUTER_MODEL", "gemini-2.5-flash"),
			PlannerModel:    getEnv("PLANNER_MODEL", "gemini-2.5-flash"),
			AnalystModel:    getEnv("ANALYST_MODEL", "gemini-2.5-pro"),
			CitationModel:   getEnv("CITATION_MODEL", "gemini-2.5-pro"),
			FormatterModel:  getEnv("FORMATTER_MODEL", "gemini-2.5-flash"),
			SimpleRAGModel:  getEnv("SIMPLE_RAG_MODEL", "gemini-2.5-flash"),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDim:    getEnvAsInt("EMBEDDING_DIM", 768),
			SimpleTopK:      getEnvAsInt("SIMPLE_RAG_TOP_K", 5),
			HunterTopK:      getEnvAsInt("HUNTER_TOP_K", 10),
			MemoryThreshold: getEnvAsFloat("MEMORY_SIMILARITY_THRESHOLD", 0.75),
			CacheTTLSeconds: getEnvAsInt("CONTEXT_CACHE_TTL_SECONDS", 3600),
		},
		Ingestion: IngestionConfig{
			DataDir:      getEnv("DATA_DIR", "data"),
			ChunkSize:    getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap: getEnvAsInt("CHUNK_OVERLAP", 200),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
