// Command elobmon exercises a simulated ELO-Board from the host: it
// reads and sets the real-time clock, runs the peripheral self test,
// demonstrates the fault runtime and drives the LED panel interactively.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/gofrs/uuid"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "elobmon",
	Short:   "Monitor and exercise a simulated ELO-Board",
	Version: version,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.elobmon.yaml)")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	viper.BindPFlag("config", pf.Lookup("config"))
	viper.BindPFlag("no-color", pf.Lookup("no-color"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
}

func initConfig() {
	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".elobmon")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("elobmon")
	viper.AutomaticEnv()
	// A missing config file is fine; flags and env carry the defaults.
	viper.ReadInConfig()

	if viper.GetBool("no-color") {
		color.NoColor = true
	}

	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	session, _ := uuid.NewV4()
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: viper.GetBool("no-color")}).
		Level(level).
		With().
		Timestamp().
		Str("session", session.String()).
		Logger()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fatal(err)
	}
}
