// conf/defaults.go default values for viper configuration
package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default values for the configuration parameters
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main configuration
	viper.SetDefault("main.name", "Plantarium-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "plantarium.log")
	viper.SetDefault("main.log.rotation", RotationDaily)
	viper.SetDefault("main.log.maxsize", 1048576)

	// Web server configuration
	viper.SetDefault("webserver.enabled", true)
	viper.SetDefault("webserver.debug", false)
	viper.SetDefault("webserver.port", "8080")

	// Database output configuration
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "plants.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "plantarium")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "plantarium")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")

	// CSV import configuration
	viper.SetDefault("import.strict", false)
	viper.SetDefault("import.maxfilesize", 10*1024*1024)
}
