package profile

import (
	"encoding/xml"
	"sort"
)

// fromDocument builds a profile tree from a parsed document. Sub-profile
// elements are parsed recursively but left unexpanded; the expander loads
// their external definitions later.
func fromDocument(doc *profileXML) *Profile {
	p := New(doc.Name, doc.Type)
	for _, k := range doc.Keys {
		p.SetKey(k.Name, k.Value)
	}
	for _, f := range doc.Fields {
		p.SetField(Field{
			Name:    f.Name,
			Type:    f.Type,
			Default: f.Default,
			Options: f.Options,
		})
	}
	if doc.Schedule != nil && doc.Type == TypeSync {
		p.schedule = scheduleFromXML(doc.Schedule)
	}
	for _, sub := range doc.Subs {
		p.AddSubProfile(fromDocument(sub))
	}
	return p
}

// toDocument serializes a profile tree. Keys and fields are emitted in
// sorted name order so repeated saves of the same profile are byte-stable.
func toDocument(p *Profile) *profileXML {
	doc := &profileXML{
		Name: p.name,
		Type: p.typ,
	}

	keyNames := make([]string, 0, len(p.keys))
	for name := range p.keys {
		keyNames = append(keyNames, name)
	}
	sort.Strings(keyNames)
	for _, name := range keyNames {
		doc.Keys = append(doc.Keys, keyXML{Name: name, Value: p.keys[name]})
	}

	fieldNames := make([]string, 0, len(p.fields))
	for name := range p.fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)
	for _, name := range fieldNames {
		f := p.fields[name]
		doc.Fields = append(doc.Fields, fieldXML{
			Name:    f.Name,
			Type:    f.Type,
			Default: f.Default,
			Options: f.Options,
		})
	}

	if p.schedule != nil && p.typ == TypeSync {
		doc.Schedule = p.schedule.toXML()
	}

	for _, sub := range p.subs {
		doc.Subs = append(doc.Subs, toDocument(sub))
	}
	return doc
}

// ParseProfile builds a profile from a serialized XML document. The root
// element must be a profile element.
func ParseProfile(data []byte) (*Profile, error) {
	var doc profileXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, NewMalformedXMLError("profile document", err)
	}
	return fromDocument(&doc), nil
}

// MarshalProfile serializes a profile to its document form, prolog included.
func MarshalProfile(p *Profile) ([]byte, error) {
	body, err := xml.MarshalIndent(toDocument(p), "", indentString())
	if err != nil {
		return nil, NewIOError(p.Name(), err)
	}
	out := make([]byte, 0, len(xmlProlog)+len(body)+1)
	out = append(out, xmlProlog...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}
