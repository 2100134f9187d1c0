package scene

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the decoded form of a scene file. The scene-level Models, Camera
// and Point-Lights sections and each record in Entities all become entities
// when the file is populated into a store.
type File struct {
	Background  Colour         `json:"Background-Colour" yaml:"Background-Colour"`
	Models      []Model        `json:"Models,omitempty" yaml:"Models,omitempty"`
	Camera      *Camera        `json:"Camera,omitempty" yaml:"Camera,omitempty"`
	PointLights []PointLight   `json:"Point-Lights,omitempty" yaml:"Point-Lights,omitempty"`
	Entities    []EntityRecord `json:"Entities,omitempty" yaml:"Entities,omitempty"`
}

// entityComponentsKey names the component list of an entity record. The
// apostrophe is not a legal encoding/json tag character, so EntityRecord
// handles the key itself in JSON.
const entityComponentsKey = "Entity's-Components"

// EntityRecord is one serialised entity.
type EntityRecord struct {
	Components Components `yaml:"Entity's-Components"`
}

func (r *EntityRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if key != entityComponentsKey {
			return fmt.Errorf("json: unknown field %q", key)
		}
	}
	*r = EntityRecord{}
	msg, ok := raw[entityComponentsKey]
	if !ok {
		return nil
	}
	return r.Components.UnmarshalJSON(msg)
}

func (r EntityRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]Components{entityComponentsKey: r.Components})
}

// Components holds the optional components of an entity record. It is
// written as a four element array in registry order, with null for a
// missing component.
type Components struct {
	Model            *Model
	Camera           *Camera
	PointLight       *PointLight
	DirectionalLight *DirectionalLight
}

func (c *Components) slots() []any {
	return []any{&c.Model, &c.Camera, &c.PointLight, &c.DirectionalLight}
}

// present returns the non-nil components as values, in registry order.
func (c Components) present() []any {
	var out []any
	if c.Model != nil {
		out = append(out, *c.Model)
	}
	if c.Camera != nil {
		out = append(out, *c.Camera)
	}
	if c.PointLight != nil {
		out = append(out, *c.PointLight)
	}
	if c.DirectionalLight != nil {
		out = append(out, *c.DirectionalLight)
	}
	return out
}

func (c *Components) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	slots := c.slots()
	if len(raw) > len(slots) {
		return fmt.Errorf("entity has %d components, at most %d are declared", len(raw), len(slots))
	}
	for i, msg := range raw {
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			continue
		}
		if err := decodeStrictJSON(msg, slots[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c Components) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Model, c.Camera, c.PointLight, c.DirectionalLight})
}

func (c *Components) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: entity components must be a sequence", node.Line)
	}
	slots := c.slots()
	if len(node.Content) > len(slots) {
		return fmt.Errorf("line %d: entity has %d components, at most %d are declared", node.Line, len(node.Content), len(slots))
	}
	for i, item := range node.Content {
		if item.Tag == "!!null" {
			continue
		}
		if err := decodeStrictYAML(item, slots[i]); err != nil {
			return err
		}
	}
	return nil
}

// decodeStrictJSON decodes msg into v, rejecting unknown keys at any depth.
func decodeStrictJSON(msg json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeStrictYAML decodes node into v, rejecting unknown keys at any depth.
// Node.Decode does not apply KnownFields, so the node is re-encoded and read
// back through a strict decoder.
func decodeStrictYAML(node *yaml.Node, v any) error {
	out, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(out))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

func (c Components) MarshalYAML() (any, error) {
	return []any{c.Model, c.Camera, c.PointLight, c.DirectionalLight}, nil
}

func (k *ShaderKey) UnmarshalJSON(data []byte) error {
	var parts []*string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	return k.fromParts(parts)
}

func (k ShaderKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.parts())
}

func (k *ShaderKey) UnmarshalYAML(node *yaml.Node) error {
	var parts []*string
	if err := node.Decode(&parts); err != nil {
		return err
	}
	return k.fromParts(parts)
}

func (k ShaderKey) MarshalYAML() (any, error) {
	return k.parts(), nil
}

func (k *ShaderKey) fromParts(parts []*string) error {
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("shader key needs 2 or 3 files, got %d", len(parts))
	}
	if parts[0] == nil || parts[1] == nil {
		return fmt.Errorf("shader key needs vertex and fragment files")
	}
	*k = ShaderKey{Vertex: *parts[0], Fragment: *parts[1]}
	if len(parts) == 3 && parts[2] != nil {
		k.Geometry = *parts[2]
	}
	return nil
}

func (k ShaderKey) parts() []*string {
	parts := []*string{&k.Vertex, &k.Fragment, nil}
	if k.Geometry != "" {
		parts[2] = &k.Geometry
	}
	return parts
}
