package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// minimalDoc holds only the required fields; everything optional is absent
// so the documented defaults must fill in.
const minimalDoc = `
training:
  lr: 0.01
  batch_size: 128
  epochs: 100
  ckpt_dir: ./ckpt
  ckpt_path: ./ckpt/latest.pth
  train_ratio: 0.8
commit:
  commit_file_path: ./results.csv
model:
  arch: resnet18
optimizer:
  name: Adam
scheduler:
  type: CosineAnnealingLR
data:
  data_root: ./data
logging:
  log_dir: ./logs
  tensorboard_dir: ./tb
  logger_dir: ./structured
distributed_training:
  dist_url: tcp://127.0.0.1:29500
  backend: gloo
  device: cpu
log_csv_path: ./results.csv
`

func TestLoad_ValidDocument(t *testing.T) {
	s, err := Load("testdata/config.yaml")
	require.NoError(t, err)
	require.NotNil(t, s)

	assert.Equal(t, 0.1, s.Training.LR)
	assert.Equal(t, 256, s.Training.BatchSize)
	assert.Equal(t, 200, s.Training.Epochs)
	assert.Equal(t, 0.9, s.Training.TrainRatio)
	assert.Equal(t, 8, s.Training.Workers)

	// Literal values survive exactly as written.
	assert.Equal(t, "SGD", s.Optimizer.Name)
	assert.Equal(t, 0.9, s.Optimizer.Momentum)
	assert.Equal(t, 5e-4, s.Optimizer.WeightDecay)
	assert.Equal(t, []float64{0.9, 0.999}, s.Optimizer.Betas)

	assert.Equal(t, "resnet34", s.Model.Arch)
	assert.Equal(t, "cifar100", s.Data.DatasetName)
	assert.Equal(t, "hccl", s.Distributed.Backend)
	assert.Equal(t, "npu", s.Distributed.Device)
	assert.Equal(t, []int{0, 1, 2, 3}, s.Distributed.DeviceList)
	assert.Equal(t, "./logs/results.csv", s.LogCSVPath)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	s, err := Load(writeTempYAML(t, minimalDoc))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Training.GradAccumSteps)
	assert.Equal(t, 42, s.Training.Seed)
	assert.Equal(t, 0, s.Training.Workers)
	assert.Equal(t, 0, s.Training.StartEpoch)
	assert.Equal(t, 0.9, s.Optimizer.Momentum)
	assert.Equal(t, "CrossEntropyLoss", s.Optimizer.Criterion)
	assert.Equal(t, "min", s.Scheduler.Mode)
	assert.Equal(t, 0, s.Scheduler.WarmupSteps)
	assert.Equal(t, 1e-6, s.EarlyStopping.MinLossImprovement)
	assert.Equal(t, "cifar100", s.Data.DatasetName)
	assert.True(t, s.Evaluation.ValEnabled)
	assert.Equal(t, 128.0, s.AMP.LossScale)
	assert.Equal(t, "O2", s.AMP.OptLevel)
	assert.Equal(t, "127.0.0.1", s.Distributed.MasterAddr)
	assert.Equal(t, "29500", s.Distributed.MasterPort)
	assert.False(t, s.Distributed.Distributed)
}

func TestLoad_ExplicitZeroBeatsDefault(t *testing.T) {
	doc := minimalDoc + `
early_stopping:
  min_loss_improvement: 0
  patience: 0
`
	s, err := Load(writeTempYAML(t, doc))
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.EarlyStopping.MinLossImprovement)
	assert.Equal(t, 0, s.EarlyStopping.Patience)
}

func TestLoad_RoundTripIsStable(t *testing.T) {
	full, err := os.ReadFile("testdata/config.yaml")
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{"full document", string(full)},
		{"minimal document without device_list", minimalDoc},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s1, err := Load(writeTempYAML(t, tc.doc))
			require.NoError(t, err)

			b, err := Dump(s1)
			require.NoError(t, err)

			s2, err := Load(writeTempYAML(t, string(b)))
			require.NoError(t, err)

			assert.Equal(t, s1, s2)
		})
	}
}

func TestLoad_ExplicitEmptyDeviceListEqualsAbsent(t *testing.T) {
	doc := strings.Replace(minimalDoc, "device: cpu", "device: cpu\n  device_list: []", 1)
	s, err := Load(writeTempYAML(t, doc))
	require.NoError(t, err)
	assert.Nil(t, s.Distributed.DeviceList)
}

func TestLoad_QuotedNumericStringIsAccepted(t *testing.T) {
	doc := strings.Replace(minimalDoc, "backend: gloo", "backend: gloo\n  master_port: \"29500\"", 1)
	s, err := Load(writeTempYAML(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "29500", s.Distributed.MasterPort)
}

func TestLoad_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed yaml", "training: [unclosed"},
		{"wrong type for known field", "training:\n  lr: fast\n"},
		{"int into string field", "distributed_training:\n  master_port: 29500\n"},
		{"bool into string field", "model:\n  arch: true\n"},
		{"float into top-level string field", "log_csv_path: 1.5\n"},
		{"unknown key", "training:\n  learning_rate: 0.1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Load(writeTempYAML(t, tc.doc))
			assert.Nil(t, s)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.NotEmpty(t, pe.Path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoad_EmptyDocument_FailsValidation(t *testing.T) {
	s, err := Load(writeTempYAML(t, ""))
	assert.Nil(t, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "training.lr")
	assert.Contains(t, fields, "model.arch")
	assert.Contains(t, fields, "log_csv_path")
}

func TestLoad_ReportsAllViolationsAtOnce(t *testing.T) {
	doc := `
training:
  lr: -0.1
  batch_size: 128
  epochs: 10
  ckpt_dir: ./ckpt
  ckpt_path: ./ckpt/latest.pth
  train_ratio: 1.5
  start_epoch: 20
commit:
  commit_file_path: ./results.csv
model:
  arch: not_a_model
optimizer:
  name: Adam
scheduler:
  type: CosineAnnealingLR
data:
  data_root: ./data
logging:
  log_dir: ./logs
  tensorboard_dir: ./tb
  logger_dir: ./structured
distributed_training:
  dist_url: tcp://127.0.0.1:29500
  backend: gloo
  device: cpu
log_csv_path: ./results.csv
`
	_, err := Load(writeTempYAML(t, doc))
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.GreaterOrEqual(t, len(verrs), 4)

	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.Contains(t, fields, "training.lr")
	assert.Contains(t, fields, "training.train_ratio")
	assert.Contains(t, fields, "training.start_epoch")
	assert.Contains(t, fields, "model.arch")
}

func TestErrorKinds_DoNotCrossMatch(t *testing.T) {
	pe := &ParseError{Path: "x.yaml", Err: errors.New("boom")}
	assert.ErrorIs(t, pe, ErrParse)
	assert.NotErrorIs(t, pe, ErrValidation)

	verrs := ValidationErrors{{Field: "training.lr", Reason: "must be positive"}}
	assert.ErrorIs(t, verrs, ErrValidation)
	assert.NotErrorIs(t, verrs, ErrParse)
}
