// Copyright Tessera Systems Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package binfile defines the binary bundle format: a compiled module,
// together with the device table it was checked against, behind a small
// versioned header.
package binfile

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/tesseralang/go-tessera/pkg/device"
	"github.com/tesseralang/go-tessera/pkg/ir"
)

// ============================================================================
// Binary Bundle Format
// ============================================================================

// Bundle is a programmatic representation of an underlying bundle file.
type Bundle struct {
	// Header for the bundle file.
	Header Header
	// Module contained within this bundle.
	Module ir.Module
	// Device table this bundle's placements were checked against.
	Table device.Table
}

// NewBundle constructs a new bundle with the default header for the currently
// supported version.
func NewBundle(headerdata []byte, module *ir.Module, table *device.Table) *Bundle {
	return &Bundle{
		Header{TESSERA, BUNDLE_MAJOR_VERSION, BUNDLE_MINOR_VERSION, headerdata},
		*module,
		*table,
	}
}

// Header provides a structured header for the bundle file format.  In
// particular, it supports versioning and embedded (binary) metadata.
type Header struct {
	Identifier   [8]byte
	MajorVersion uint16
	MinorVersion uint16
	MetaData     []byte
}

// MarshalBinary converts the bundle Header into a sequence of bytes.  Observe
// that we don't use GobEncoding here to avoid being tied to that encoding
// scheme.
func (p *Header) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		majorBytes [2]byte
		minorBytes [2]byte
		metaLength [4]byte
	)
	// Marshall version numbers
	binary.BigEndian.PutUint16(majorBytes[:], p.MajorVersion)
	binary.BigEndian.PutUint16(minorBytes[:], p.MinorVersion)
	binary.BigEndian.PutUint32(metaLength[:], uint32(len(p.MetaData)))
	// Write identifier
	buffer.Write(p.Identifier[:])
	// Write major version
	buffer.Write(majorBytes[:])
	// Write minor version
	buffer.Write(minorBytes[:])
	// Write metadata length
	buffer.Write(metaLength[:])
	// Write metadata itself
	buffer.Write(p.MetaData)
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this bundle Header from a given set of data
// bytes.  This should match exactly the encoding above.
func (p *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var (
		majorBytes      [2]byte
		minorBytes      [2]byte
		metaLengthBytes [4]byte
	)
	// Read identifier
	if n, err := buffer.Read(p.Identifier[:]); err != nil {
		return err
	} else if n != 8 {
		return errors.New("malformed bundle file")
	}
	// Read major version
	if n, err := buffer.Read(majorBytes[:]); err != nil {
		return err
	} else if n != len(majorBytes) {
		return errors.New("malformed bundle file")
	}
	// Read minor version
	if n, err := buffer.Read(minorBytes[:]); err != nil {
		return err
	} else if n != len(minorBytes) {
		return errors.New("malformed bundle file")
	}
	// Read metadata length
	if n, err := buffer.Read(metaLengthBytes[:]); err != nil {
		return err
	} else if n != len(metaLengthBytes) {
		return errors.New("malformed bundle file")
	}
	// Make space for the metadata
	var (
		metaLength        = binary.BigEndian.Uint32(metaLengthBytes[:])
		metaBytes  []byte = make([]byte, metaLength)
	)
	// Read metadata itself (skipped when empty, since Read returns 0 there)
	if metaLength > 0 {
		if n, err := buffer.Read(metaBytes[:]); err != nil {
			return err
		} else if n != len(metaBytes) {
			return errors.New("malformed bundle file")
		}
	}
	// Finally assign everything over
	p.MajorVersion = binary.BigEndian.Uint16(majorBytes[:])
	p.MinorVersion = binary.BigEndian.Uint16(minorBytes[:])
	p.MetaData = metaBytes
	// Done
	return nil
}

// IsCompatible determines whether a given bundle file is compatible with this
// version of go-tessera.
func (p *Header) IsCompatible() bool {
	//
	return p.Identifier == TESSERA &&
		p.MajorVersion == BUNDLE_MAJOR_VERSION &&
		p.MinorVersion <= BUNDLE_MINOR_VERSION
}

// BUNDLE_MAJOR_VERSION gives the major version of the bundle file format.  No
// matter what version, we should always have the TESSERA identifier first,
// followed by the header.  What follows after that, however, is determined by
// the major version.
const BUNDLE_MAJOR_VERSION uint16 = 1

// BUNDLE_MINOR_VERSION gives the minor version of the bundle file format.
// The expected interpretation is that older versions are compatible with
// newer ones, but not vice-versa.
const BUNDLE_MINOR_VERSION uint16 = 0

// TESSERA is used as the file identifier for bundle file types.  This just
// helps us identify actual bundle files from corrupted files.
var TESSERA [8]byte = [8]byte{'t', 'e', 's', 's', 'e', 'r', 'a', 0}

// IsBundleFile checks whether the given data file begins with the expected
// identifier.
func IsBundleFile(data []byte) bool {
	var (
		tessera [8]byte
		buffer  *bytes.Buffer = bytes.NewBuffer(data)
	)
	//
	if _, err := buffer.Read(tessera[:]); err != nil {
		return false
	}
	// Check whether header identified
	return tessera == TESSERA
}

// MarshalBinary converts the Bundle into a sequence of bytes.
func (p *Bundle) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		gobEncoder *gob.Encoder = gob.NewEncoder(&buffer)
	)
	// Marshal header
	headerBytes, err := p.Header.MarshalBinary()
	//
	if err != nil {
		return nil, err
	}
	// Encode header
	buffer.Write(headerBytes)
	// Encode module
	if err := gobEncoder.Encode(&p.Module); err != nil {
		return nil, err
	}
	// Encode device table
	if err := gobEncoder.Encode(&p.Table); err != nil {
		return nil, err
	}
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary initialises this Bundle from a given set of data bytes.
// This should match exactly the encoding above.
func (p *Bundle) UnmarshalBinary(data []byte) error {
	var err error
	//
	buffer := bytes.NewBuffer(data)
	// Read header
	if err = p.Header.UnmarshalBinary(buffer); err == nil && p.Header.IsCompatible() {
		// Looks good, proceed.
		decoder := gob.NewDecoder(buffer)
		// Decode the module
		if err = decoder.Decode(&p.Module); err == nil {
			// Restore registry-owned operator instances, since gob decoding
			// allocates a fresh copy per operator node.
			p.Module = *ir.InternModuleOps(&p.Module)
			// Finally, decode the device table
			err = decoder.Decode(&p.Table)
		}
	} else if err == nil {
		err = fmt.Errorf("incompatible bundle file (was v%d.%d, but expected v%d.%d)",
			p.Header.MajorVersion, p.Header.MinorVersion, BUNDLE_MAJOR_VERSION, BUNDLE_MINOR_VERSION)
	}
	//
	return err
}

// Gob encodes expressions and types through their interfaces, hence every
// concrete implementation must be registered up front.
func init() {
	gob.Register(&ir.Var{})
	gob.Register(&ir.GlobalVar{})
	gob.Register(&ir.Constant{})
	gob.Register(&ir.Tuple{})
	gob.Register(&ir.TupleGet{})
	gob.Register(&ir.Call{})
	gob.Register(&ir.Let{})
	gob.Register(&ir.If{})
	gob.Register(&ir.Function{})
	gob.Register(&ir.Annotation{})
	gob.Register(&ir.Constructor{})
	gob.Register(&ir.Op{})
	//
	gob.Register(&ir.TensorType{})
	gob.Register(&ir.TupleType{})
	gob.Register(&ir.FuncType{})
}
