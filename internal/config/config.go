// Package config owns the configuration contract of the training harness:
// it parses the YAML training document into a typed settings tree, applies
// defaults, validates every invariant, and hands the result to the rest of
// the system read-only.
package config

// Settings is the parsed training document. It is built once by Load at
// process start and must not be mutated afterwards; every downstream
// consumer (training loop, distributed launcher, data loader, logger)
// shares the same value.
//
// Sections:
//   - Training: core hyperparameters, checkpoint locations and intervals.
//   - Commit: free-text run annotation and the CSV results file.
//   - Model: backbone architecture selection.
//   - Optimizer / Scheduler / EarlyStopping: optimization settings.
//   - Data: dataset location and selection.
//   - Logging: directories for the three log sinks.
//   - Evaluation: validation/test pass cadence.
//   - AMP: mixed-precision settings.
//   - Distributed: collective-communication and device placement settings.
//
// LogCSVPath mirrors Commit.CommitFilePath at the top level of the
// document; the two are kept as given and a disagreement is surfaced as a
// warning, not an error.
type Settings struct {
	Training      TrainingSettings      `yaml:"training"`
	Commit        CommitSettings        `yaml:"commit"`
	Model         ModelSettings         `yaml:"model"`
	Optimizer     OptimizerSettings     `yaml:"optimizer"`
	Scheduler     SchedulerSettings     `yaml:"scheduler"`
	EarlyStopping EarlyStoppingSettings `yaml:"early_stopping"`
	Data          DataSettings          `yaml:"data"`
	Logging       LoggingSettings       `yaml:"logging"`
	Evaluation    EvaluationSettings    `yaml:"evaluation"`
	AMP           AMPSettings           `yaml:"amp"`
	Distributed   DistributedSettings   `yaml:"distributed_training"`
	LogCSVPath    string                `yaml:"log_csv_path"`
}

// TrainingSettings holds the core loop hyperparameters. BatchSize is the
// total across all devices, not per device. StartEpoch must not exceed
// Epochs; TrainRatio is the train/validation split and must lie strictly
// between 0 and 1.
type TrainingSettings struct {
	LR                  float64 `yaml:"lr"`
	BatchSize           int     `yaml:"batch_size"`
	Epochs              int     `yaml:"epochs"`
	GradAccumSteps      int     `yaml:"grad_accum_steps"`
	Seed                int     `yaml:"seed"`
	Verbose             bool    `yaml:"verbose"`
	Deterministic       bool    `yaml:"deterministic"`
	Debug               bool    `yaml:"debug"`
	TrackStats          bool    `yaml:"track_stats"`
	CkptDir             string  `yaml:"ckpt_dir"`
	CkptPath            string  `yaml:"ckpt_path"`
	CkptSaveInterval    int     `yaml:"ckpt_save_interval"`
	HistorySaveInterval int     `yaml:"history_save_interval"`
	TrainRatio          float64 `yaml:"train_ratio"`
	Workers             int     `yaml:"workers"`
	StartEpoch          int     `yaml:"start_epoch"`
}

type CommitSettings struct {
	CommitMessage  string `yaml:"commit_message"`
	CommitFilePath string `yaml:"commit_file_path"`
}

type ModelSettings struct {
	Arch       string `yaml:"arch"`
	Pretrained bool   `yaml:"pretrained"`
}

// OptimizerSettings selects and parameterizes the optimizer. Momentum only
// applies to SGD and Betas only to Adam/AdamW; both are carried regardless
// so a document can switch optimizers without losing values.
type OptimizerSettings struct {
	Name        string    `yaml:"name"`
	Momentum    float64   `yaml:"momentum"`
	WeightDecay float64   `yaml:"weight_decay"`
	Betas       []float64 `yaml:"betas"`
	Criterion   string    `yaml:"criterion"`
}

type SchedulerSettings struct {
	Type        string  `yaml:"type"`
	Mode        string  `yaml:"mode"`
	Factor      float64 `yaml:"factor"`
	Patience    int     `yaml:"patience"`
	WarmupSteps int     `yaml:"warmup_steps"`
}

type EarlyStoppingSettings struct {
	MinLossImprovement float64 `yaml:"min_loss_improvement"`
	Patience           int     `yaml:"patience"`
}

type DataSettings struct {
	DataRoot     string `yaml:"data_root"`
	DatasetName  string `yaml:"dataset_name"`
	UseDummyData bool   `yaml:"use_dummy_data"`
}

// LoggingSettings names the three log sinks. The loader stores the
// directories as given; creating them is the log writers' job.
type LoggingSettings struct {
	LogDir         string `yaml:"log_dir"`
	TensorboardDir string `yaml:"tensorboard_dir"`
	LoggerDir      string `yaml:"logger_dir"`
}

type EvaluationSettings struct {
	ValEnabled   bool `yaml:"val_enabled"`
	ValInterval  int  `yaml:"val_interval"`
	TestEnabled  bool `yaml:"test_enabled"`
	TestInterval int  `yaml:"test_interval"`
}

type AMPSettings struct {
	Enabled   bool    `yaml:"enabled"`
	LossScale float64 `yaml:"loss_scale"`
	OptLevel  string  `yaml:"opt_level"`
}

// DistributedSettings configures the distributed launcher. DeviceList holds
// the accelerator indices the job may use; it must be non-empty whenever
// Distributed is true, and its entries must be unique in any case.
type DistributedSettings struct {
	Distributed bool   `yaml:"distributed"`
	DistURL     string `yaml:"dist_url"`
	Backend     string `yaml:"backend"`
	MasterAddr  string `yaml:"master_addr"`
	MasterPort  string `yaml:"master_port"`
	Device      string `yaml:"device"`
	DeviceList  []int  `yaml:"device_list"`
}

// LoadDefaults populates every optional field with its documented default.
// Required fields (learning rate, batch size, paths, enumerated selections)
// are left at their zero values so that an absent key fails validation
// instead of silently training with a made-up value.
func (s *Settings) LoadDefaults() {
	s.Training.GradAccumSteps = 1
	s.Training.Seed = 42
	s.Training.CkptSaveInterval = 1
	s.Training.HistorySaveInterval = 1
	s.Training.Workers = 0
	s.Training.StartEpoch = 0
	s.Optimizer.Momentum = 0.9
	s.Optimizer.WeightDecay = 5e-4
	s.Optimizer.Betas = []float64{0.9, 0.999}
	s.Optimizer.Criterion = "CrossEntropyLoss"
	s.Scheduler.Mode = "min"
	s.Scheduler.Factor = 0.1
	s.Scheduler.Patience = 10
	s.Scheduler.WarmupSteps = 0
	s.EarlyStopping.MinLossImprovement = 1e-6
	s.EarlyStopping.Patience = 10
	s.Data.DatasetName = "cifar100"
	s.Evaluation.ValEnabled = true
	s.Evaluation.ValInterval = 1
	s.Evaluation.TestInterval = 1
	s.AMP.LossScale = 128
	s.AMP.OptLevel = "O2"
	s.Distributed.MasterAddr = "127.0.0.1"
	s.Distributed.MasterPort = "29500"
}
