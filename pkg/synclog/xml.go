package synclog

import (
	"encoding/xml"
	"time"
)

const (
	logIndentWidth = 4
	xmlProlog      = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	timeFormat     = time.RFC3339
)

type syncLogXML struct {
	XMLName xml.Name         `xml:"syncLog"`
	Profile string           `xml:"profile,attr"`
	Results []syncResultsXML `xml:"syncResults"`
}

type syncResultsXML struct {
	Time      string      `xml:"time,attr"`
	MajorCode int         `xml:"majorCode,attr"`
	MinorCode int         `xml:"minorCode,attr,omitempty"`
	Scheduled string      `xml:"scheduled,attr,omitempty"`
	Targets   []targetXML `xml:"target"`
	Error     string      `xml:"error,omitempty"`
}

type targetXML struct {
	Name   string         `xml:"name,attr"`
	Local  *itemCountsXML `xml:"local"`
	Remote *itemCountsXML `xml:"remote"`
	Error  string         `xml:"error,omitempty"`
}

type itemCountsXML struct {
	Added    int `xml:"added,attr"`
	Deleted  int `xml:"deleted,attr"`
	Modified int `xml:"modified,attr"`
}

// Unmarshal rebuilds a log from its document form.
func Unmarshal(data []byte) (*SyncLog, error) {
	var doc syncLogXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	log := NewSyncLog(doc.Profile)
	for _, r := range doc.Results {
		result := SyncResults{
			MajorCode: MajorCode(r.MajorCode),
			MinorCode: r.MinorCode,
			Scheduled: r.Scheduled == "true",
			Error:     r.Error,
		}
		if t, err := time.Parse(timeFormat, r.Time); err == nil {
			result.Time = t
		}
		for _, tgt := range r.Targets {
			target := TargetResults{Name: tgt.Name, Error: tgt.Error}
			if tgt.Local != nil {
				target.Local = ItemCounts(*tgt.Local)
			}
			if tgt.Remote != nil {
				target.Remote = ItemCounts(*tgt.Remote)
			}
			result.Targets = append(result.Targets, target)
		}
		log.AddResults(result)
	}
	return log, nil
}

// Marshal serializes the log to its document form, prolog included.
func Marshal(l *SyncLog) ([]byte, error) {
	doc := syncLogXML{Profile: l.profileName}
	for _, r := range l.results {
		entry := syncResultsXML{
			Time:      r.Time.Format(timeFormat),
			MajorCode: int(r.MajorCode),
			MinorCode: r.MinorCode,
			Error:     r.Error,
		}
		if r.Scheduled {
			entry.Scheduled = "true"
		}
		for _, tgt := range r.Targets {
			local := itemCountsXML(tgt.Local)
			remote := itemCountsXML(tgt.Remote)
			entry.Targets = append(entry.Targets, targetXML{
				Name:   tgt.Name,
				Local:  &local,
				Remote: &remote,
				Error:  tgt.Error,
			})
		}
		doc.Results = append(doc.Results, entry)
	}

	body, err := xml.MarshalIndent(doc, "", indentString())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xmlProlog)+len(body)+1)
	out = append(out, xmlProlog...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func indentString() string {
	b := make([]byte, logIndentWidth)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
