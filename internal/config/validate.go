package config

import (
	"fmt"
	"slices"
	"strings"
)

// Allowed values for the enumerated fields. An unrecognized value is a
// configuration error, never silently ignored: the original training code
// resolves these names at runtime, so a typo would otherwise surface as a
// crash several minutes into a multi-device job.
var (
	Architectures  = []string{"resnet18", "resnet34", "resnet50", "resnet101", "vgg16", "densenet121"}
	Optimizers     = []string{"SGD", "Adam", "AdamW"}
	Criterions     = []string{"CrossEntropyLoss", "MSELoss"}
	SchedulerTypes = []string{"ReduceLROnPlateau", "StepLR", "CosineAnnealingLR", "OneCycleLR"}
	SchedulerModes = []string{"min", "max"}
	Datasets       = []string{"cifar10", "cifar100"}
	OptLevels      = []string{"O0", "O1", "O2", "O3"}
	Backends       = []string{"hccl", "nccl", "gloo", "mpi"}
	DeviceTypes    = []string{"npu", "gpu", "cpu"}
)

// Validate checks every invariant of the settings tree and returns the
// complete list of violations in document order. It is a pure function: no
// I/O, no mutation, and in particular no filesystem checks — path fields
// only need to be non-empty here, their existence is the consumer's
// problem.
func Validate(s *Settings) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}
	addEnum := func(field, val string, allowed []string) {
		if !slices.Contains(allowed, val) {
			add(field, "unrecognized value %q, must be one of: %s", val, strings.Join(allowed, ", "))
		}
	}
	addPath := func(field, val string) {
		if val == "" {
			add(field, "path must be a non-empty string")
		}
	}

	t := &s.Training
	if t.LR <= 0 {
		add("training.lr", "must be a positive float, got %v", t.LR)
	}
	if t.BatchSize <= 0 {
		add("training.batch_size", "must be a positive integer, got %d", t.BatchSize)
	}
	if t.Epochs <= 0 {
		add("training.epochs", "must be a positive integer, got %d", t.Epochs)
	}
	if t.GradAccumSteps <= 0 {
		add("training.grad_accum_steps", "must be a positive integer, got %d", t.GradAccumSteps)
	}
	addPath("training.ckpt_dir", t.CkptDir)
	addPath("training.ckpt_path", t.CkptPath)
	if t.CkptSaveInterval <= 0 {
		add("training.ckpt_save_interval", "must be a positive integer, got %d", t.CkptSaveInterval)
	}
	if t.HistorySaveInterval <= 0 {
		add("training.history_save_interval", "must be a positive integer, got %d", t.HistorySaveInterval)
	}
	if t.TrainRatio <= 0 || t.TrainRatio >= 1 {
		add("training.train_ratio", "must be strictly between 0 and 1, got %v", t.TrainRatio)
	}
	if t.Workers < 0 {
		add("training.workers", "must not be negative, got %d", t.Workers)
	}
	if t.StartEpoch < 0 {
		add("training.start_epoch", "must not be negative, got %d", t.StartEpoch)
	} else if t.Epochs > 0 && t.StartEpoch > t.Epochs {
		add("training.start_epoch", "must not exceed training.epochs (%d > %d)", t.StartEpoch, t.Epochs)
	}

	addPath("commit.commit_file_path", s.Commit.CommitFilePath)

	addEnum("model.arch", s.Model.Arch, Architectures)

	o := &s.Optimizer
	addEnum("optimizer.name", o.Name, Optimizers)
	if o.Momentum < 0 {
		add("optimizer.momentum", "must not be negative, got %v", o.Momentum)
	}
	if o.WeightDecay < 0 {
		add("optimizer.weight_decay", "must not be negative, got %v", o.WeightDecay)
	}
	if len(o.Betas) != 2 {
		add("optimizer.betas", "must be a pair of floats, got %d value(s)", len(o.Betas))
	} else {
		for i, b := range o.Betas {
			if b < 0 || b >= 1 {
				add(fmt.Sprintf("optimizer.betas[%d]", i), "must be in [0, 1), got %v", b)
			}
		}
	}
	addEnum("optimizer.criterion", o.Criterion, Criterions)

	sc := &s.Scheduler
	addEnum("scheduler.type", sc.Type, SchedulerTypes)
	addEnum("scheduler.mode", sc.Mode, SchedulerModes)
	if sc.Factor <= 0 || sc.Factor >= 1 {
		add("scheduler.factor", "must be strictly between 0 and 1, got %v", sc.Factor)
	}
	if sc.Patience < 0 {
		add("scheduler.patience", "must not be negative, got %d", sc.Patience)
	}
	if sc.WarmupSteps < 0 {
		add("scheduler.warmup_steps", "must not be negative, got %d", sc.WarmupSteps)
	}

	es := &s.EarlyStopping
	if es.MinLossImprovement < 0 {
		add("early_stopping.min_loss_improvement", "must not be negative, got %v", es.MinLossImprovement)
	}
	if es.Patience < 0 {
		add("early_stopping.patience", "must not be negative, got %d", es.Patience)
	}

	addPath("data.data_root", s.Data.DataRoot)
	addEnum("data.dataset_name", s.Data.DatasetName, Datasets)

	addPath("logging.log_dir", s.Logging.LogDir)
	addPath("logging.tensorboard_dir", s.Logging.TensorboardDir)
	addPath("logging.logger_dir", s.Logging.LoggerDir)

	ev := &s.Evaluation
	if ev.ValInterval <= 0 {
		add("evaluation.val_interval", "must be a positive integer, got %d", ev.ValInterval)
	}
	if ev.TestInterval <= 0 {
		add("evaluation.test_interval", "must be a positive integer, got %d", ev.TestInterval)
	}

	if s.AMP.LossScale <= 0 {
		add("amp.loss_scale", "must be a positive float, got %v", s.AMP.LossScale)
	}
	addEnum("amp.opt_level", s.AMP.OptLevel, OptLevels)

	d := &s.Distributed
	addPath("distributed_training.dist_url", d.DistURL)
	addEnum("distributed_training.backend", d.Backend, Backends)
	addPath("distributed_training.master_addr", d.MasterAddr)
	addPath("distributed_training.master_port", d.MasterPort)
	addEnum("distributed_training.device", d.Device, DeviceTypes)
	if d.Distributed && len(d.DeviceList) == 0 {
		add("distributed_training.device_list", "must not be empty when distributed_training.distributed is true")
	}
	seen := make(map[int]bool, len(d.DeviceList))
	for i, idx := range d.DeviceList {
		if idx < 0 {
			add(fmt.Sprintf("distributed_training.device_list[%d]", i), "device index must not be negative, got %d", idx)
		}
		if seen[idx] {
			add(fmt.Sprintf("distributed_training.device_list[%d]", i), "duplicate device index %d", idx)
		}
		seen[idx] = true
	}

	addPath("log_csv_path", s.LogCSVPath)

	return errs
}

// Warnings reports non-fatal findings. The top-level log_csv_path
// duplicates commit.commit_file_path in the document; which one is
// authoritative was never pinned down, so a disagreement is surfaced
// without being corrected.
func Warnings(s *Settings) []string {
	var warns []string
	if s.LogCSVPath != "" && s.Commit.CommitFilePath != "" && s.LogCSVPath != s.Commit.CommitFilePath {
		warns = append(warns, fmt.Sprintf(
			"log_csv_path (%q) and commit.commit_file_path (%q) disagree; both kept as given",
			s.LogCSVPath, s.Commit.CommitFilePath))
	}
	return warns
}
