package cmd

import (
	"strings"

	. "github.com/defval/di"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ely.by/appearance/internal/di"
	"ely.by/appearance/internal/http"
	"ely.by/appearance/internal/version"
)

var RootCmd = &cobra.Command{
	Use:     "appearance",
	Short:   "Storage and rendering service for the players appearance",
	Version: version.Version(),
}

func shouldGetContainer() *Container {
	container, err := di.New()
	if err != nil {
		panic(err)
	}

	return container
}

func startServer(modules ...string) error {
	container := shouldGetContainer()

	var config *viper.Viper
	err := container.Resolve(&config)
	if err != nil {
		return err
	}

	config.Set("modules", modules)

	return container.Invoke(http.StartServer)
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
}
