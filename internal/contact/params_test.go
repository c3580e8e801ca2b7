package contact

import (
	"strings"
	"testing"
)

func TestContactParams_ValidatePresets(t *testing.T) {
	if err := DefaultRigidParams().Validate(); err != nil {
		t.Errorf("rigid preset must validate: %v", err)
	}
	if err := DefaultSoftParams().Validate(); err != nil {
		t.Errorf("soft preset must validate: %v", err)
	}
}

func TestContactParams_ValidateRejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ContactParams)
		want   string
	}{
		{"negative hold budget", func(p *ContactParams) { p.NHold = -1 }, "NHold"},
		{"zero sample cap", func(p *ContactParams) { p.NTarget = 0 }, "NTarget"},
		{"zero manifold cap", func(p *ContactParams) { p.MaxManifolds = 0 }, "MaxManifolds"},
		{"zero support count", func(p *ContactParams) { p.SupportCount = 0 }, "SupportCount"},
		{"density without radius", func(p *ContactParams) { p.DensityEnabled = true; p.NeighborRadius = 0 }, "NeighborRadius"},
		{"negative grid cell", func(p *ContactParams) { p.GridCellXZ = -0.1 }, "GridCellXZ"},
		{"alpha out of range", func(p *ContactParams) { p.AlphaCentroid = 1.0 }, "AlphaCentroid"},
		{"exit inside enter", func(p *ContactParams) { p.ExitDistance = 0.01; p.EnterDistance = 0.05 }, "ExitDistance"},
		{"zero angle steps", func(p *ContactParams) { p.AngleSteps = 0 }, "AngleSteps"},
		{"trim quantile too large", func(p *ContactParams) { p.TrimQuantile = 0.5 }, "TrimQuantile"},
		{"unknown algorithm", func(p *ContactParams) { p.Algorithm = "pca" }, "algorithm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := DefaultRigidParams()
			tc.mutate(&params)
			err := params.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestBodyKind_String(t *testing.T) {
	if BodyRigid.String() != "rigid" || BodySoft.String() != "soft" {
		t.Errorf("unexpected kind strings: %q, %q", BodyRigid, BodySoft)
	}
}
