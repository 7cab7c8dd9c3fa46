package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/drewnoakes/msgpack-strict/compat"
	"github.com/drewnoakes/msgpack-strict/schema"
	"github.com/mb0/xelf/cor"
)

func loadSchema(path string) (schema.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, cor.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	s, err := schema.DecodeXML(f)
	if err != nil {
		return nil, cor.Errorf("decode %s: %w", path, err)
	}
	return s, nil
}

func textCmd(args []string) error {
	if len(args) != 1 {
		return cor.Errorf("usage: msgpack-strict text <schema.xml>")
	}
	s, err := loadSchema(args[0])
	if err != nil {
		return err
	}
	fmt.Println(schema.Text(s))
	return nil
}

func xmlCmd(args []string) error {
	if len(args) != 1 {
		return cor.Errorf("usage: msgpack-strict xml <schema.xml>")
	}
	s, err := loadSchema(args[0])
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := schema.EncodeXML(&buf, s); err != nil {
		return err
	}
	fmt.Println(buf.String())
	return nil
}

func compatCmd(args []string) error {
	strict := false
	for len(args) > 0 && len(args[len(args)-1]) > 0 && args[len(args)-1][0] == '-' {
		switch args[len(args)-1] {
		case "--strict":
			strict = true
		default:
			return cor.Errorf("unknown flag %s", args[len(args)-1])
		}
		args = args[:len(args)-1]
	}
	if len(args) != 2 {
		return cor.Errorf("usage: msgpack-strict compat <read.xml> <write.xml> [--strict]")
	}
	read, err := loadSchema(args[0])
	if err != nil {
		return err
	}
	write, err := loadSchema(args[1])
	if err != nil {
		return err
	}
	if compat.CanReadFrom(read, write, strict) {
		fmt.Println("compatible")
	} else {
		fmt.Println("incompatible")
	}
	return nil
}
