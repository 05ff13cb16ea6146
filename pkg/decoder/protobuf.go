// Copyright 2026 Alexander Alten (novatechflow), NovaTechflow (novatechflow.com).
// This project is supported and financed by Scalytics, Inc. (www.scalytics.io).
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

package decoder

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"github.com/novatechflow/kafquery/internal/metrics"
)

// ProtoDecoder decodes rows as one protobuf message type and resolves field
// paths with protoreflect. The message type is fixed at registration time;
// nothing is looked up per row.
type ProtoDecoder struct {
	typ protoreflect.MessageType
}

// NewProtoDecoder builds a decoder for an already resolved message type.
func NewProtoDecoder(typ protoreflect.MessageType) *ProtoDecoder {
	return &ProtoDecoder{typ: typ}
}

// ResolveProto finds a message type by full name in the process-wide
// protobuf registry and wraps it in a decoder.
func ResolveProto(fullName string) (*ProtoDecoder, error) {
	typ, err := protoregistry.GlobalTypes.FindMessageByName(protoreflect.FullName(fullName))
	if err != nil {
		return nil, fmt.Errorf("resolve message type %q: %w", fullName, err)
	}
	return NewProtoDecoder(typ), nil
}

// Decode implements RowDecoder.
func (d *ProtoDecoder) Decode(data []byte, paths []string) ([]Value, bool) {
	msg := d.typ.New().Interface()
	if err := proto.Unmarshal(data, msg); err != nil {
		metrics.RowsUnparseable.Inc()
		return nil, false
	}
	root := msg.ProtoReflect()
	values := make([]Value, len(paths))
	for i, path := range paths {
		values[i] = locate(root, path)
	}
	return values, true
}

// locate walks a '/'-delimited field path, skipping empty segments. A
// segment naming an unknown field or an unset singular field stops the walk
// with an absent value; repeated and map fields are always present. A
// non-message value reached before the final segment is absent too.
func locate(root protoreflect.Message, path string) Value {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	if len(segments) == 0 {
		return Value{}
	}

	current := root
	for i, seg := range segments {
		fd := current.Descriptor().Fields().ByName(protoreflect.Name(seg))
		if fd == nil {
			return Value{}
		}
		if !fd.IsList() && !fd.IsMap() && !current.Has(fd) {
			return Value{}
		}
		v := current.Get(fd)
		if i == len(segments)-1 {
			return Value{Present: true, Value: v.Interface()}
		}
		if fd.IsList() || fd.IsMap() || fd.Kind() != protoreflect.MessageKind {
			return Value{}
		}
		current = v.Message()
	}
	return Value{}
}
