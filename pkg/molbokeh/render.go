package molbokeh

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/chem"
	"github.com/ukaji3/molbokeh-go/pkg/molbokeh/depict"
)

// SVGDataURIPrefix starts every image produced by SmiToSVG.
const SVGDataURIPrefix = "data:image/svg+xml;base64,"

// SmiToSVG renders a SMILES string as an SVG data URI, or as an <img> tag
// when opts.HTML is set. Kekulization failures fall back to the aromatic
// structure and are logged as warnings. Nothing is cached.
func SmiToSVG(smi string, opts RenderOptions) (string, error) {
	size := opts.molSize()
	if err := validate.Struct(size); err != nil {
		return "", NewOptionsError(err)
	}

	mol, err := chem.ParseSMILES(smi)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSmiles, err)
	}

	if opts.ShouldKekulize() {
		kek, err := chem.Kekulize(mol)
		if err != nil {
			opts.logger().Warn().Str("smiles", smi).Err(err).Msg("kekulization failed, drawing aromatic bonds")
		} else {
			mol = kek
		}
	}

	if !mol.HasCoords {
		depict.Compute2DCoords(mol)
	}

	svg, err := depict.DrawSVG(mol, size.Width, size.Height)
	if err != nil {
		return "", err
	}
	svg = stripNamespace(svg)

	b64 := base64.StdEncoding.EncodeToString([]byte(svg))
	if opts.HTML {
		return `<img src="` + SVGDataURIPrefix + b64 + `"/>`, nil
	}
	return SVGDataURIPrefix + b64, nil
}

// stripNamespace removes svg: element prefixes so the markup can be
// embedded directly. A prefix-only namespace declaration becomes the
// default namespace so the unprefixed elements stay in SVG.
func stripNamespace(svg string) string {
	out := strings.ReplaceAll(svg, "svg:", "")
	if !strings.Contains(out, `xmlns="`) {
		out = strings.Replace(out, "xmlns:svg=", "xmlns=", 1)
	}
	return out
}
