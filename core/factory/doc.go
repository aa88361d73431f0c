// Package factory provides a small generic registry used to build modules
// from configuration. A module is described by a type name and a map of raw
// settings; factories decode the settings into typed structs with Decode.
//
//	reg := factory.NewRegistry[store.Store]()
//	reg.Register("sqlite", func(conf map[string]any) (store.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return sqlite.Open(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "sqlite", Conf: map[string]any{"path": "skyops.db"}})
package factory
