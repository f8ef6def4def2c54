// conf/validate.go settings validation
package conf

import (
	"strconv"

	"github.com/tphakala/plantarium-go/internal/errors"
)

// ValidateSettings checks the loaded settings for obvious misconfiguration.
func ValidateSettings(settings *Settings) error {
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		return err
	}
	if err := validateOutputSettings(&settings.Output); err != nil {
		return err
	}
	return validateImportSettings(&settings.Import)
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.Newf("invalid web server port: %s", ws.Port).
			Category(errors.CategoryConfiguration).
			Context("setting", "webserver.port").
			Build()
	}
	return nil
}

func validateOutputSettings(out *OutputSettings) error {
	if !out.SQLite.Enabled && !out.MySQL.Enabled {
		return errors.Newf("no database output enabled, enable either SQLite or MySQL").
			Category(errors.CategoryConfiguration).
			Context("setting", "output").
			Build()
	}
	if out.SQLite.Enabled && out.SQLite.Path == "" {
		return errors.Newf("SQLite output enabled but path is empty").
			Category(errors.CategoryConfiguration).
			Context("setting", "output.sqlite.path").
			Build()
	}
	if out.MySQL.Enabled {
		if out.MySQL.Database == "" || out.MySQL.Host == "" {
			return errors.Newf("MySQL output enabled but database or host is empty").
				Category(errors.CategoryConfiguration).
				Context("setting", "output.mysql").
				Build()
		}
	}
	return nil
}

func validateImportSettings(imp *ImportSettings) error {
	if imp.MaxFileSize <= 0 {
		return errors.Newf("import.maxfilesize must be positive, got %d", imp.MaxFileSize).
			Category(errors.CategoryConfiguration).
			Context("setting", "import.maxfilesize").
			Build()
	}
	return nil
}
