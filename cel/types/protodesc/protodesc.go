// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package protodesc builds spec.md §6 "addMessageTypes" declarations
// from a protocol buffer .proto source file, the descriptor-pool input
// the checker needs to type-check field selection and struct
// construction against a message type it never generates code for
// (spec.md §4.9). It plays the same role for message declarations that
// cel/source/literal plays for numeric literals: a small staging layer
// between an external textual syntax and this module's own typed
// representation, built on a single purpose-fit third-party parser
// rather than a hand-rolled one.
package protodesc

import (
	"fmt"
	"io"

	"github.com/emicklei/proto"

	"github.com/exprlang/cel/cel/checker"
	"github.com/exprlang/cel/cel/types"
)

// ParseFile reads a single .proto source and returns one MessageType
// declaration per top-level message, keyed by its unqualified name
// (spec.md §6 "addMessageTypes(descriptors…)"). Messages nested inside
// another message are flattened to "Outer.Inner", matching how a
// qualified select resolves them (spec.md §4.4).
func ParseFile(r io.Reader) ([]checker.MessageType, error) {
	parser := proto.NewParser(r)
	def, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("protodesc: %w", err)
	}

	var out []checker.MessageType
	for _, el := range def.Elements {
		if m, ok := el.(*proto.Message); ok {
			out = append(out, messageTypesOf("", m)...)
		}
	}
	return out, nil
}

// messageTypesOf collects prefix.Name plus every nested message under m,
// recursively, since a .proto message may itself declare messages.
func messageTypesOf(prefix string, m *proto.Message) []checker.MessageType {
	name := m.Name
	if prefix != "" {
		name = prefix + "." + name
	}

	fields := map[string]*types.Type{}
	var nested []*proto.Message
	for _, el := range m.Elements {
		switch x := el.(type) {
		case *proto.NormalField:
			fields[x.Name] = fieldType(x)
		case *proto.Message:
			nested = append(nested, x)
		}
	}

	out := []checker.MessageType{{Name: name, Fields: fields}}
	for _, n := range nested {
		out = append(out, messageTypesOf(name, n)...)
	}
	return out
}

// fieldType maps a .proto scalar type name to its CEL type (spec.md
// §4.9's 1:1 primitive mapping). A message, enum, or group-typed field
// resolves to types.Dyn: following its declaration transitively is left
// to the resolveTypeDependencies builder option's caller, which can
// register the referenced message's own MessageType separately and let
// field selection re-check against it dynamically.
func fieldType(f *proto.NormalField) *types.Type {
	if f.Repeated {
		return types.ListOf(scalarType(f.Type))
	}
	return scalarType(f.Type)
}

func scalarType(protoType string) *types.Type {
	switch protoType {
	case "int32", "int64", "sint32", "sint64", "sfixed32", "sfixed64":
		return types.Int
	case "uint32", "uint64", "fixed32", "fixed64":
		return types.Uint
	case "float", "double":
		return types.Double
	case "bool":
		return types.Bool
	case "string":
		return types.String
	case "bytes":
		return types.Bytes
	default:
		// message, enum or group reference: resolved dynamically.
		return types.Dyn
	}
}
