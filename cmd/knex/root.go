package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cognicore/knex/pkg/knex/config"
)

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "knex",
		Short: "Keyword and summary extraction for unstructured text",
		Long: `knex analyzes free text: it picks the top noun keywords, scores how well
they cover the text and asks an LLM for a title, three topics and the
overall sentiment. Analyses are stored and can be searched by topic or
keyword.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (YAML)")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: text or json")
	flags.String("store-driver", "", "store driver: memory, sqlite or postgres")
	flags.String("store-dsn", "", "store DSN (sqlite path or postgres URL; empty for memory)")
	flags.String("llm", "", "LLM provider: openai, gemini or none")
	flags.String("model", "", "LLM model name")
	flags.String("lexicon", "", "YAML lexicon overrides for the tagger")

	bind := map[string]string{
		"log.level":    "log-level",
		"log.format":   "log-format",
		"store.driver": "store-driver",
		"store.dsn":    "store-dsn",
		"llm.provider": "llm",
		"llm.model":    "model",
		"lexicon.path": "lexicon",
	}
	for key, name := range bind {
		_ = c.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newServeCmd(c),
		newAnalyzeCmd(c),
		newSearchCmd(c),
		newRescoreCmd(c),
	)
	return root
}

// load resolves the configuration for this invocation. Flags bound to the
// viper instance win over the file and the environment.
func (c *cli) load() (*config.Config, error) {
	return config.LoadWith(c.v, c.cfgFile)
}

// loadWithoutLLM is load for commands that never summarize, so that a
// missing API key does not fail them.
func (c *cli) loadWithoutLLM() (*config.Config, error) {
	c.v.Set("llm.provider", config.ProviderNone)
	return c.load()
}
