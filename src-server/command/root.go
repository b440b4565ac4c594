package command

import (
	"fmt"
	"vcal/src-server/utils"

	"github.com/spf13/cobra"
)

var as *utils.AppState

var rootCmd = &cobra.Command{
	Use:   "vcal",
	Short: "Build and serve iCalendar (.ics) files",
	Long: `vcal builds VCALENDAR documents holding VEVENTs, writes them as .ics
text, keeps them in a sqlite database and serves them over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := utils.NewConfig()
		if err != nil {
			return fmt.Errorf("can't load config: %w", err)
		}
		utils.LogLevel.Set(cfg.GetLogLevel())
		as = utils.NewAppState(cfg)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}
