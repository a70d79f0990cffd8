// Copyright 2022 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"math"

	"github.com/gorse-io/matfact/base/log"
	"github.com/gorse-io/matfact/dataset"
	"github.com/gorse-io/matfact/model"
	"github.com/gorse-io/matfact/model/mf"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var mainCommand = &cobra.Command{
	Use:   "matfact",
	Short: "Train a matrix factorization model on a sparse rating table.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
			log.Logger().Fatal("failed to bind flags", zap.Error(err))
		}
		if cmd.PersistentFlags().Changed("config") {
			configPath, _ := cmd.PersistentFlags().GetString("config")
			viper.SetConfigFile(configPath)
			if err := viper.ReadInConfig(); err != nil {
				log.Logger().Fatal("failed to read config", zap.String("path", configPath), zap.Error(err))
			}
		}

		// load ratings
		trainPath := viper.GetString("train")
		if trainPath == "" {
			log.Logger().Fatal("training set is required, pass --train")
		}
		table, err := dataset.LoadCSV(trainPath)
		if err != nil {
			log.Logger().Fatal("failed to load training set", zap.Error(err))
		}
		var valTable []dataset.Rating
		if valPath := viper.GetString("validation"); valPath != "" {
			if valTable, err = dataset.LoadCSV(valPath); err != nil {
				log.Logger().Fatal("failed to load validation set", zap.Error(err))
			}
		} else if ratio := viper.GetFloat64("split"); ratio > 0 {
			table, valTable = dataset.Split(table, ratio, viper.GetInt64("seed"))
		}

		// encode ratings
		trainSet := dataset.Encode(table)
		var valSet *dataset.Dataset
		if len(valTable) > 0 {
			valSet = dataset.EncodeWith(valTable, trainSet)
			log.Logger().Info("encoded validation set",
				zap.Int("rows", valSet.Count()),
				zap.Int("dropped", len(valTable)-valSet.Count()))
		}

		// train
		epochs := viper.GetInt("epochs")
		m := mf.NewMF(model.Params{
			model.NFactors:    viper.GetInt("factors"),
			model.NEpochs:     epochs,
			model.Lr:          viper.GetFloat64("lr"),
			model.RandomState: viper.GetInt64("seed"),
		})
		bar := progressbar.NewOptions(epochs,
			progressbar.OptionSetDescription("fit mf"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()))
		config := mf.NewFitConfig().
			SetJobs(viper.GetInt("jobs")).
			SetTracker(func(epoch int, trainCost, validationCost float64) {
				_ = bar.Set(epoch)
			})
		score, err := m.Fit(trainSet, valSet, config)
		if err != nil {
			log.Logger().Fatal("failed to fit model", zap.Error(err))
		}
		_ = bar.Finish()
		fields := []zap.Field{zap.Float64("mse", score.MSE)}
		if !math.IsNaN(score.ValidationMSE) {
			fields = append(fields, zap.Float64("validation_mse", score.ValidationMSE))
		}
		log.Logger().Info("training complete", fields...)
	},
}

func init() {
	flags := mainCommand.PersistentFlags()
	flags.String("config", "", "path of config file")
	flags.String("train", "", "path of training ratings (user_id,item_id,rating)")
	flags.String("validation", "", "path of validation ratings")
	flags.Float64("split", 0, "hold out a fraction of the training set for validation")
	flags.Int("factors", 16, "number of latent factors")
	flags.Int("epochs", 100, "number of iterations")
	flags.Float64("lr", 0.01, "learning rate")
	flags.Int64("seed", 3, "random seed")
	flags.Int("jobs", 1, "number of workers")
	flags.Bool("debug", false, "use debug log mode")
	log.AddFlags(flags)
}

func main() {
	if err := mainCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
