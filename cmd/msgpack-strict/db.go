package main

import (
	"context"
	"fmt"

	"github.com/mb0/xelf/cor"

	"github.com/drewnoakes/msgpack-strict/schemastore"
)

func openStore(ctx context.Context) (*schemastore.Store, error) {
	if *dsnFlag == "" {
		return nil, cor.Error("no --dsn given and MSGPACK_STRICT_DSN is unset")
	}
	pool, err := schemastore.Open(ctx, *dsnFlag)
	if err != nil {
		return nil, err
	}
	st := schemastore.NewStore(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func recordCmd(args []string) error {
	if len(args) != 2 {
		return cor.Errorf("usage: msgpack-strict record <name> <schema.xml>")
	}
	name, path := args[0], args[1]
	s, err := loadSchema(path)
	if err != nil {
		return err
	}
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	prev, err := st.History(ctx, name)
	if err != nil {
		return err
	}
	mf := schemastore.NewManifest(prev)
	v, err := mf.Version(name, s)
	if err != nil {
		return err
	}
	if err := st.Record(ctx, v, s); err != nil {
		return err
	}
	fmt.Printf("%s vers=%d hash=%s\n", v.Name, v.Vers, v.Hash)
	return nil
}

func historyCmd(args []string) error {
	if len(args) != 1 {
		return cor.Errorf("usage: msgpack-strict history <name>")
	}
	name := args[0]
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	hs, err := st.History(ctx, name)
	if err != nil {
		return err
	}
	if len(hs) == 0 {
		fmt.Printf("%s: no recorded versions\n", name)
		return nil
	}
	for _, v := range hs {
		fmt.Printf("%s vers=%d hash=%s date=%s\n", v.Name, v.Vers, v.Hash, v.Date.Format("2006-01-02T15:04:05Z07:00"))
	}
	return nil
}
