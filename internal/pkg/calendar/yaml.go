package calendar

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlFile is the on-disk layout:
//
//	holidays:
//	  - date: 2024-06-17
//	    name: Idul Adha
type yamlFile struct {
	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"holidays"`
}

func ParseYAML(r io.Reader) ([]Holiday, error) {
	var file yamlFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	holidays := make([]Holiday, 0, len(file.Holidays))
	for i, h := range file.Holidays {
		date, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %d: invalid date %q", i, h.Date)
		}
		holidays = append(holidays, Holiday{Date: date, Name: h.Name})
	}
	return holidays, nil
}
