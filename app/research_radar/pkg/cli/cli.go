package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iWorld-y/research_radar/app/research_radar/pkg/config"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/engine"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/logger"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/storage"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/tools"
)

const defaultConfigPath = "app/research_radar/configs/config.yaml"

type options struct {
	configPath  string
	topic       string
	framework   string
	interactive bool
}

// NewRootCommand 以 framework 为默认编排方式的根命令
func NewRootCommand(framework string) *cobra.Command {
	opts := &options{framework: framework}

	root := &cobra.Command{
		Use:   framework + "_agent",
		Short: fmt.Sprintf("Research a topic with the %s orchestrator", framework),
		Long: `Runs the research pipeline: search -> analyze -> report -> save.

Without OPENAI_API_KEY the run uses deterministic demo data and still
writes a complete record to the output directory.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResearch(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "config file path")
	root.Flags().StringVarP(&opts.topic, "topic", "t", "", "research topic (default from config)")
	root.Flags().StringVar(&opts.framework, "framework", framework, "orchestrator: chain, graph, crew or code")
	root.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the topic")

	root.AddCommand(newServeCommand(opts), newHistoryCommand(opts))
	return root
}

// Execute 运行根命令，失败时以非零状态退出
func Execute(framework string) {
	if err := NewRootCommand(framework).Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap 加载配置、初始化日志与可选的数据库
func bootstrap(opts *options) (*config.Config, *storage.Storage, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("无法加载配置文件: %w", err)
	}
	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		return nil, nil, fmt.Errorf("无法初始化日志: %w", err)
	}

	if cfg.DB.Host == "" {
		logger.Log.Debug("未配置数据库信息，跳过归档")
		return cfg, nil, nil
	}
	store, err := storage.NewStorage(cfg.DB)
	if err != nil {
		logger.Log.Errorf("无法连接数据库: %v. 将仅保存 JSON 文件。", err)
		return cfg, nil, nil
	}
	logger.Log.Info("已成功连接到数据库")
	return cfg, store, nil
}

func runResearch(cmd *cobra.Command, opts *options) error {
	cfg, store, err := bootstrap(opts)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	topic := strings.TrimSpace(opts.topic)
	if topic == "" && opts.interactive {
		topic, err = promptTopic(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Topic)
		if err != nil {
			return err
		}
	}

	eng, err := engine.NewEngine(cfg, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderBanner(opts.framework, eng.Mode(), tools.SystemClock.CurrentTime()))

	res, err := eng.Run(cmd.Context(), engine.RunOptions{Framework: opts.framework, Topic: topic})
	if res != nil {
		fmt.Fprintln(out, renderResult(res))
	}
	return err
}

// promptTopic 读取一行话题，空行使用默认值
func promptTopic(in io.Reader, out io.Writer, fallback string) (string, error) {
	fmt.Fprintf(out, "Research topic [%s]: ", fallback)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read topic: %w", err)
	}
	if topic := strings.TrimSpace(line); topic != "" {
		return topic, nil
	}
	return fallback, nil
}

func newHistoryCommand(opts *options) *cobra.Command {
	var fromDB bool
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved research records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, store, err := bootstrap(opts)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			if fromDB {
				if store == nil {
					return fmt.Errorf("database is not configured")
				}
				runs, err := store.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderRuns(runs))
				return nil
			}

			records, err := tools.ListRecords(cfg.Output.Dir)
			if err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(records))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fromDB, "db", false, "read from the Postgres archive instead of the output directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of records")
	return cmd
}
