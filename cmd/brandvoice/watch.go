package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/brandvoice/internal/clients/kafka_client"
	"github.com/spacesedan/brandvoice/internal/models"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print run summaries published to Kafka as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.KafkaBroker == "" {
			return errors.New("KAFKA_BROKER is required to watch run summaries")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		kcfg := kafka_client.NewKafkaConfig(cfg.KafkaBroker, cfg.KafkaResultTopic)
		if group, _ := cmd.Flags().GetString("group"); group != "" {
			kcfg.GroupID = group
		}

		subscriber, err := kafka_client.NewRunSubscriber(kcfg)
		if err != nil {
			return err
		}
		defer subscriber.Close()

		enc := json.NewEncoder(cmd.OutOrStdout())
		return subscriber.Consume(ctx, func(summary models.RunSummary) error {
			return enc.Encode(summary)
		})
	},
}

func init() {
	watchCmd.Flags().String("group", kafka_client.DEFAULT_WATCH_GROUP_ID, "Kafka consumer group")
	rootCmd.AddCommand(watchCmd)
}
