package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config armazena todas as configurações do cliente GFashion.
type Config struct {
	// Geral
	Environment string
	LogLevel    string

	// Backend
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Janela de staleness do snapshot local do carrinho. Zero desabilita
	// o cache de leitura (toda consulta vai ao servidor).
	CartCacheTTL time.Duration

	// Cache compartilhado (Redis). Vazio usa o cache em memória.
	RedisAddr string

	// Persistência de sessão. Vazio mantém a sessão apenas em memória.
	SessionFile       string
	SessionPassphrase string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Backend
		// mustGetEnv garante que o cliente não inicie sem saber para
		// onde apontar.
		APIBaseURL:  mustGetEnv("GFASHION_API_URL"),
		HTTPTimeout: getDurationEnv("HTTP_TIMEOUT_SEC", 15) * time.Second,

		// 3. Carrinho
		CartCacheTTL: getDurationEnv("CART_CACHE_TTL_SEC", 30) * time.Second,

		// 4. Cache compartilhado (opcional)
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// 5. Sessão persistente (opcional)
		SessionFile:       getEnv("SESSION_FILE", ""),
		SessionPassphrase: getEnv("SESSION_PASSPHRASE", ""),
	}

	return cfg
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}
