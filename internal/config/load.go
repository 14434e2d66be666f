package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/runloop/internal/ctxlog"
	"github.com/vk/runloop/internal/fsutil"
	"github.com/vk/runloop/internal/hostenv"
)

// rawFile mirrors the HCL surface of one config file.
type rawFile struct {
	Role            string      `hcl:"role,optional"`
	LogLevel        string      `hcl:"log_level,optional"`
	LogFormat       string      `hcl:"log_format,optional"`
	HealthcheckPort *int        `hcl:"healthcheck_port,optional"`
	StartWorkers    *int        `hcl:"start_workers,optional"`
	Ticks           *rawTicks   `hcl:"ticks,block"`
	Modules         []rawModule `hcl:"module,block"`
	Folders         []rawFolder `hcl:"folder,block"`
}

type rawTicks struct {
	Update  string `hcl:"update,optional"`
	Physics string `hcl:"physics,optional"`
	Render  string `hcl:"render,optional"`
}

type rawModule struct {
	Name   string         `hcl:"name,label"`
	Type   string         `hcl:"type"`
	Params hcl.Expression `hcl:"params,optional"`
}

type rawFolder struct {
	Name    string      `hcl:"name,label"`
	Modules []rawModule `hcl:"module,block"`
	Folders []rawFolder `hcl:"folder,block"`
}

// Load reads host configuration from path (a single .hcl file or a directory
// of them, merged in sorted filename order) and returns the validated model.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := fsutil.CollectFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	if len(filePaths) == 0 {
		return nil, fmt.Errorf("no .hcl config files found under %q", path)
	}
	logger.Debug("Found config files to load.", "files", filePaths)

	parser := hclparse.NewParser()
	merged := rawFile{}
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var raw rawFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &raw); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode config file %s: %w", filePath, diags)
		}
		mergeRaw(&merged, raw)
		logger.Debug("Loaded config file.", "file", filePath)
	}

	return finalize(merged)
}

// mergeRaw folds src into dst: scalars last-set wins, declarations append.
func mergeRaw(dst *rawFile, src rawFile) {
	if src.Role != "" {
		dst.Role = src.Role
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.HealthcheckPort != nil {
		dst.HealthcheckPort = src.HealthcheckPort
	}
	if src.StartWorkers != nil {
		dst.StartWorkers = src.StartWorkers
	}
	if src.Ticks != nil {
		if dst.Ticks == nil {
			dst.Ticks = &rawTicks{}
		}
		if src.Ticks.Update != "" {
			dst.Ticks.Update = src.Ticks.Update
		}
		if src.Ticks.Physics != "" {
			dst.Ticks.Physics = src.Ticks.Physics
		}
		if src.Ticks.Render != "" {
			dst.Ticks.Render = src.Ticks.Render
		}
	}
	dst.Modules = append(dst.Modules, src.Modules...)
	dst.Folders = append(dst.Folders, src.Folders...)
}

func finalize(raw rawFile) (*Model, error) {
	model := &Model{
		Role:      hostenv.RoleServer,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
		Ticks: Ticks{
			Update:  defaultUpdateTick,
			Physics: defaultPhysicsTick,
			Render:  defaultRenderTick,
		},
	}

	if raw.Role != "" {
		role, err := hostenv.ParseRole(raw.Role)
		if err != nil {
			return nil, err
		}
		model.Role = role
	}
	if raw.LogLevel != "" {
		model.LogLevel = raw.LogLevel
	}
	if raw.LogFormat != "" {
		model.LogFormat = raw.LogFormat
	}
	if raw.HealthcheckPort != nil {
		model.HealthcheckPort = *raw.HealthcheckPort
	}
	if raw.StartWorkers != nil {
		if *raw.StartWorkers < 0 {
			return nil, fmt.Errorf("start_workers must not be negative, got %d", *raw.StartWorkers)
		}
		model.StartWorkers = *raw.StartWorkers
	}

	if raw.Ticks != nil {
		var err error
		if model.Ticks.Update, err = tickDuration("update", raw.Ticks.Update, defaultUpdateTick); err != nil {
			return nil, err
		}
		if model.Ticks.Physics, err = tickDuration("physics", raw.Ticks.Physics, defaultPhysicsTick); err != nil {
			return nil, err
		}
		if model.Ticks.Render, err = tickDuration("render", raw.Ticks.Render, defaultRenderTick); err != nil {
			return nil, err
		}
	}

	root, err := buildFolder("", rawFolder{Modules: raw.Modules, Folders: raw.Folders})
	if err != nil {
		return nil, err
	}
	model.Root = root

	return model, nil
}

func tickDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("ticks.%s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("ticks.%s must be positive, got %s", name, d)
	}
	return d, nil
}

func buildFolder(name string, raw rawFolder) (Folder, error) {
	folder := Folder{Name: name}

	for _, m := range raw.Modules {
		if m.Type == "" {
			return Folder{}, fmt.Errorf("module %q: type is required", m.Name)
		}
		params, err := decodeParams(m.Params)
		if err != nil {
			return Folder{}, fmt.Errorf("module %q: %w", m.Name, err)
		}
		folder.Modules = append(folder.Modules, Decl{Name: m.Name, Type: m.Type, Params: params})
	}

	for _, f := range raw.Folders {
		child, err := buildFolder(f.Name, f)
		if err != nil {
			return Folder{}, fmt.Errorf("folder %q: %w", f.Name, err)
		}
		folder.Folders = append(folder.Folders, child)
	}

	return folder, nil
}

// decodeParams evaluates the params expression into a flat string map,
// converting primitive values through cty so `every = "5s"` and `beats = 3`
// both come out as strings for the factories to parse.
func decodeParams(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating params: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("params must be an object, got %s", val.Type().FriendlyName())
	}

	params := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() {
			continue
		}
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", k.AsString(), err)
		}
		params[k.AsString()] = sv.AsString()
	}
	return params, nil
}
