package schema

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// ActionKind discriminates EventAction variants on the wire.
type ActionKind string

// Supported action kinds.
const (
	ActionNavigate ActionKind = "navigate"
	ActionSubmit   ActionKind = "submit"
	ActionToggle   ActionKind = "toggle"
	ActionSetValue ActionKind = "setValue"
	ActionCustom   ActionKind = "custom"
)

// ActionKinds lists every supported kind in declaration order.
func ActionKinds() []ActionKind {
	return []ActionKind{ActionNavigate, ActionSubmit, ActionToggle, ActionSetValue, ActionCustom}
}

// EventAction is the closed set of actions an event may trigger. The marker
// method keeps implementations inside this package.
type EventAction interface {
	Kind() ActionKind
	isEventAction()
}

// NavigateAction moves the user to URL.
type NavigateAction struct {
	URL string
}

// SubmitAction submits the surrounding form, optionally to Endpoint.
type SubmitAction struct {
	Endpoint string
}

// ToggleAction flips the boolean found at Path in the data context.
type ToggleAction struct {
	Path string
}

// SetValueAction writes Value at Path in the data context.
type SetValueAction struct {
	Path  string
	Value any
}

// CustomAction calls a host-provided handler by name.
type CustomAction struct {
	Handler string
	Params  map[string]any
}

func (NavigateAction) Kind() ActionKind { return ActionNavigate }
func (SubmitAction) Kind() ActionKind   { return ActionSubmit }
func (ToggleAction) Kind() ActionKind   { return ActionToggle }
func (SetValueAction) Kind() ActionKind { return ActionSetValue }
func (CustomAction) Kind() ActionKind   { return ActionCustom }

func (NavigateAction) isEventAction() {}
func (SubmitAction) isEventAction()   {}
func (ToggleAction) isEventAction()   {}
func (SetValueAction) isEventAction() {}
func (CustomAction) isEventAction()   {}

// EventBinding attaches an action to a named event such as "onClick".
type EventBinding struct {
	Event  string
	Action EventAction
}

type actionWire struct {
	Type     ActionKind     `json:"type"`
	URL      string         `json:"url,omitempty"`
	Endpoint string         `json:"endpoint,omitempty"`
	Path     string         `json:"path,omitempty"`
	Value    any            `json:"value,omitempty"`
	Handler  string         `json:"handler,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

type eventWire struct {
	Event  string      `json:"event"`
	Action *actionWire `json:"action"`
}

// MarshalJSON encodes the binding with a "type" discriminated action.
func (e EventBinding) MarshalJSON() ([]byte, error) {
	out := eventWire{Event: e.Event}
	if e.Action != nil {
		wire, err := encodeAction(e.Action)
		if err != nil {
			return nil, err
		}
		out.Action = &wire
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a binding, rejecting unknown action kinds.
func (e *EventBinding) UnmarshalJSON(data []byte) error {
	var raw struct {
		Event  string         `json:"event"`
		Action map[string]any `json:"action"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Event = raw.Event
	e.Action = nil
	if raw.Action == nil {
		return nil
	}
	action, err := DecodeAction(raw.Action)
	if err != nil {
		return err
	}
	e.Action = action
	return nil
}

func encodeAction(action EventAction) (actionWire, error) {
	switch a := action.(type) {
	case NavigateAction:
		return actionWire{Type: ActionNavigate, URL: a.URL}, nil
	case SubmitAction:
		return actionWire{Type: ActionSubmit, Endpoint: a.Endpoint}, nil
	case ToggleAction:
		return actionWire{Type: ActionToggle, Path: a.Path}, nil
	case SetValueAction:
		return actionWire{Type: ActionSetValue, Path: a.Path, Value: a.Value}, nil
	case CustomAction:
		return actionWire{Type: ActionCustom, Handler: a.Handler, Params: a.Params}, nil
	default:
		return actionWire{}, fmt.Errorf("schema: unsupported action %T", action)
	}
}

// DecodeAction builds an EventAction from its untyped JSON object form. The
// error message names the offending key so validators can surface it.
func DecodeAction(raw map[string]any) (EventAction, error) {
	kindValue, ok := raw["type"]
	if !ok {
		return nil, fmt.Errorf("schema: action is missing \"type\"")
	}
	kind, ok := kindValue.(string)
	if !ok {
		return nil, fmt.Errorf("schema: action \"type\" must be a string")
	}

	switch ActionKind(strings.TrimSpace(kind)) {
	case ActionNavigate:
		url, err := requiredString(raw, "url")
		if err != nil {
			return nil, err
		}
		return NavigateAction{URL: url}, nil
	case ActionSubmit:
		endpoint, err := optionalString(raw, "endpoint")
		if err != nil {
			return nil, err
		}
		return SubmitAction{Endpoint: endpoint}, nil
	case ActionToggle:
		path, err := requiredString(raw, "path")
		if err != nil {
			return nil, err
		}
		return ToggleAction{Path: path}, nil
	case ActionSetValue:
		path, err := requiredString(raw, "path")
		if err != nil {
			return nil, err
		}
		return SetValueAction{Path: path, Value: CloneValue(raw["value"])}, nil
	case ActionCustom:
		handler, err := requiredString(raw, "handler")
		if err != nil {
			return nil, err
		}
		action := CustomAction{Handler: handler}
		if params, ok := raw["params"]; ok && params != nil {
			typed, ok := params.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("schema: action \"params\" must be an object")
			}
			action.Params = cloneMap(typed)
		}
		return action, nil
	default:
		return nil, fmt.Errorf("schema: unknown action type %q", kind)
	}
}

func requiredString(raw map[string]any, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", fmt.Errorf("schema: action is missing %q", key)
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("schema: action %q must be a string", key)
	}
	return str, nil
}

func optionalString(raw map[string]any, key string) (string, error) {
	value, ok := raw[key]
	if !ok || value == nil {
		return "", nil
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("schema: action %q must be a string", key)
	}
	return str, nil
}
