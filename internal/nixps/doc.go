// Package nixps reads the builds that the local Nix daemon is running.
//
// # Overview
//
// The package wraps the `nix ps --json` command. It runs the command, decodes
// the JSON array it prints and returns the builds as a Snapshot ordered by
// derivation, so consecutive snapshots list builds in a stable order.
//
//   - client.go: Client, the Fetcher interface and output decoding
//   - types.go: Process, Build and Snapshot plus derivation name helpers
//
// # Usage
//
//	client := nixps.NewClient("nix", []string{"ps", "--json"})
//	builds, err := client.Fetch(ctx)
//	if err != nil {
//		log.Printf("nix ps failed: %v", err)
//	}
//	for _, b := range builds {
//		fmt.Println(b.PName(), b.Version())
//	}
//
// # Output Format
//
// Each array element describes one build:
//
//	{
//	  "derivation": "/nix/store/<32-char hash>-hello-2.12.1.drv",
//	  "mainPid": 4242,
//	  "nixPid": 4200,
//	  "startTime": 1718000000.5,
//	  "processes": [
//	    {"pid": 4242, "parentPid": 4200, "argv": ["bash", "-e", "builder.sh"],
//	     "stime": 0.1, "utime": 1.2}
//	  ]
//	}
//
// Only the fields above are decoded; anything else the command prints is
// ignored. Processes are a flat list; the ancestry is rebuilt by package tree.
//
// # Derivation Names
//
// Build.Name strips the store directory, the 32 character hash plus dash and
// the .drv suffix. Identifiers that are too short or lack the dash after the
// hash are returned as-is instead of being sliced, so malformed data never
// panics. PName and Version split Name at its last dash.
//
// # Error Handling
//
// Fetch returns errors for:
//   - the command failing to start (for example nix not on PATH)
//   - a non-zero exit, wrapped together with the trimmed stderr
//   - JSON that does not decode
//
// Cancellation of ctx kills the child process and Fetch returns ctx.Err().
// Empty output is a valid, empty Snapshot.
package nixps
