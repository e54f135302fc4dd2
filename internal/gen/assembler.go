package gen

import (
	"fmt"

	"torchgen/internal/region"
	"torchgen/internal/resolve"
	"torchgen/internal/skeleton"
)

// Placeholders renders the value of a named placeholder for cfg.
type Placeholders interface {
	Resolve(name string, cfg *resolve.Config) (string, error)
}

// Assembler renders skeletons. It keeps no state between calls and is safe
// for concurrent use.
type Assembler struct {
	selector     *region.Selector
	placeholders Placeholders
}

// NewAssembler creates an Assembler.
func NewAssembler(selector *region.Selector, placeholders Placeholders) *Assembler {
	return &Assembler{selector: selector, placeholders: placeholders}
}

// Assemble renders tpl for cfg. An undeclared placeholder or region aborts
// the run and no partial source is returned.
func (a *Assembler) Assemble(tpl *skeleton.Template, cfg *resolve.Config) (*GeneratedSource, error) {
	r := &run{
		assembler: a,
		cfg:       cfg,
		values:    make(map[string]string),
		decisions: make(map[string]bool),
	}

	if err := r.walk(tpl.Fragments); err != nil {
		return nil, fmt.Errorf("assembling %s: %w", tpl.Name, err)
	}

	return &GeneratedSource{
		Segments: r.segments,
		Manifest: Manifest{
			Template: tpl.Name,
			Options:  cfg.ActiveNames(),
			Settings: cfg.Snapshot(),
			Regions:  r.kept,
			Dropped:  r.dropped,
		},
	}, nil
}

// run is the state of one Assemble call.
type run struct {
	assembler *Assembler
	cfg       *resolve.Config

	segments []string
	values   map[string]string
	// decisions caches region outcomes by label.
	decisions map[string]bool
	kept      []string
	dropped   []string
}

func (r *run) walk(fragments []skeleton.Fragment) error {
	for _, f := range fragments {
		switch f := f.(type) {
		case skeleton.Text:
			r.segments = append(r.segments, string(f))

		case skeleton.Placeholder:
			v, err := r.placeholder(f.Name)
			if err != nil {
				return err
			}

			r.segments = append(r.segments, v)

		case skeleton.Region:
			keep, err := r.region(f.Label)
			if err != nil {
				return err
			}

			branch := f.Else
			if keep {
				branch = f.Body
			}

			if err := r.walk(branch); err != nil {
				return err
			}

		default:
			return fmt.Errorf("unknown fragment %T", f)
		}
	}

	return nil
}

func (r *run) placeholder(name string) (string, error) {
	if v, ok := r.values[name]; ok {
		return v, nil
	}

	v, err := r.assembler.placeholders.Resolve(name, r.cfg)
	if err != nil {
		return "", err
	}

	r.values[name] = v

	return v, nil
}

func (r *run) region(label string) (bool, error) {
	if keep, ok := r.decisions[label]; ok {
		return keep, nil
	}

	keep, err := r.assembler.selector.IsActive(label, r.cfg)
	if err != nil {
		return false, err
	}

	r.decisions[label] = keep

	if keep {
		r.kept = append(r.kept, label)
	} else {
		r.dropped = append(r.dropped, label)
	}

	return keep, nil
}
