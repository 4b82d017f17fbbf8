package cmd

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/taskie/treblo"
)

var rootCmd = &cobra.Command{
	Use:   "treblo [PATHS...]",
	Short: "Print Git object digests of files and directories",
	Long: `Print the Git blob and tree digests of every file and directory under PATHS
(default: the current directory). Directory digests match "git write-tree"
for the same content.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
	RunE:              runList,
}

var logger = slog.New(slog.DiscardHandler)

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errDifferences) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ~/.config/treblo/config.yaml)")
	pf.String("store-dir", "", "snapshot store directory (default: ~/.local/share/treblo)")
	pf.StringP("hasher", "H", treblo.DefaultHasherName, "digest algorithm: sha1, sha256, xxhash64, xxhash64le")
	pf.BoolP("no-error", "E", false, "skip unreadable entries instead of failing")
	pf.Bool("no-ignore", false, "do not read custom ignore files")
	pf.Bool("no-ignore-dot", false, "do not read .ignore files")
	pf.Bool("no-ignore-vcs", false, "do not read .gitignore files or skip .git directories")
	pf.StringSlice("exclude", nil, "glob of paths to leave out (repeatable, ** supported)")
	pf.Bool("hidden", true, "include dot files")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text or json")

	viper.BindPFlag("store_dir", pf.Lookup("store-dir"))
	viper.BindPFlag("hasher", pf.Lookup("hasher"))
	viper.BindPFlag("no_error", pf.Lookup("no-error"))
	viper.BindPFlag("exclude", pf.Lookup("exclude"))
	viper.BindPFlag("log_level", pf.Lookup("log-level"))
	viper.BindPFlag("log_format", pf.Lookup("log-format"))

	addListFlags(rootCmd)
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TREBLO")
	viper.AutomaticEnv()
	viper.SetDefault("store_dir", defaultStoreDir())
	viper.SetDefault("ignore_filename", ".trebloignore")
	viper.SetDefault("jobs", 1)

	viper.ReadInConfig()
}

func setupLogger(cmd *cobra.Command, args []string) error {
	l, err := newLogger(cmd.ErrOrStderr(), viper.GetString("log_level"), viper.GetString("log_format"))
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// newWalker builds a Walker from the flags shared by every command.
func newWalker(cmd *cobra.Command, hasherName string, blobOnly bool) (*treblo.Walker, error) {
	hasher, err := treblo.HasherByName(hasherName)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	noIgnore, _ := flags.GetBool("no-ignore")
	noIgnoreDot, _ := flags.GetBool("no-ignore-dot")
	noIgnoreVCS, _ := flags.GetBool("no-ignore-vcs")
	hidden, _ := flags.GetBool("hidden")

	var ignoreFiles, skipDirs []string
	if !noIgnoreVCS {
		ignoreFiles = append(ignoreFiles, ".gitignore")
		skipDirs = append(skipDirs, ".git")
	}
	if !noIgnoreDot {
		ignoreFiles = append(ignoreFiles, ".ignore")
	}
	if name := viper.GetString("ignore_filename"); !noIgnore && name != "" {
		ignoreFiles = append(ignoreFiles, name)
	}

	return treblo.New(
		treblo.WithHasher(hasher),
		treblo.WithLenient(viper.GetBool("no_error")),
		treblo.WithBlobOnly(blobOnly),
		treblo.WithLogger(logger),
		treblo.WithHidden(hidden),
		treblo.WithIgnoreFiles(ignoreFiles...),
		treblo.WithSkipDirs(skipDirs...),
		treblo.WithExcludes(viper.GetStringSlice("exclude")...),
	), nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "treblo")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "treblo")
	}
	return ".treblo"
}

func defaultStoreDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "treblo")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "treblo")
	}
	return ".treblo"
}
