// Package clientcli provides a client library for tollgate gateways: an
// API client for the control endpoints, an upload engine with queueing and
// pause/resume, profile-based configuration, and output formatting.
//
// # Basic Usage
//
// Create a client and an engine, then enqueue files:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:5710",
//		Username: "admin",
//		Password: "secret",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	engine := clientcli.NewEngine(client)
//	defer engine.Close()
//
//	id, err := engine.Enqueue("./big.iso", "images/big.iso")
//	if err != nil {
//		log.Fatal(err)
//	}
//	_ = engine.Wait(ctx)
//
// Files below the multipart threshold upload as a single tokenized write;
// larger files are chunked into fixed-size parts and reassembled server
// side. One transfer runs at a time; Pause, Resume, Retry, and Cancel act
// on task ids.
//
// # Profile Configuration
//
// Use profiles to manage multiple gateway configurations:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatUpload(os.Stdout, engine.Tasks())
package clientcli
