package config

const DefaultPort = "8080"

func GetPort() string {
	return GetEnvOrDefault("PORT", DefaultPort)
}
