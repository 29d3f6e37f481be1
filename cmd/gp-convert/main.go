package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/perlence/guitarpro"
	"github.com/perlence/guitarpro/version"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, "Guitar Pro tablature converter. Usage:\n")
	fmt.Fprintf(os.Stderr, "gp-convert [flags] [path ...]\n")
	flag.PrintDefaults()
}

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	jsonOut := flag.Bool("j", false, "Output the song as a .json file instead of tablature.")
	yamlOut := flag.Bool("y", false, "Output the song as a .yml file instead of tablature.")
	extOut := flag.String("e", "gp5", "Output tablature dialect: gp3, gp4 or gp5.")
	outPath := flag.String("o", "", "Directory or filename where to write converted files. Directory and its parents are created if needed. By default, everything is placed in the same directory where the original file is.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	targetExt := "." + strings.TrimPrefix(*extOut, ".")
	convert := !*jsonOut && !*yamlOut
	output := func(filename string, extension string, contents []byte) error {
		if *stdout {
			os.Stdout.Write(contents)
			return nil
		}
		dir, name := filepath.Split(filename)
		if *outPath != "" {
			if info, err := os.Stat(*outPath); err == nil && info.IsDir() {
				dir = *outPath
			} else {
				outdir, outname := filepath.Split(*outPath)
				if outdir != "" {
					dir = outdir
				}
				if outname != "" {
					name = outname
				}
			}
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + extension
		f := filepath.Join(dir, name)
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil // no need to update
			}
			if !*list && *safe {
				return fmt.Errorf("file %v would be overwritten", f)
			}
		}
		if *list {
			fmt.Println(f)
			return nil
		}
		if dir != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return fmt.Errorf("could not create output directory %v: %v", dir, err)
			}
		}
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %v", f, err)
		}
		return nil
	}
	process := func(filename string) error {
		song, err := readSong(filename)
		if err != nil {
			return err
		}
		if convert {
			var buf bytes.Buffer
			if err := guitarpro.Write(song, &buf, targetVersion(targetExt)); err != nil {
				return fmt.Errorf("could not convert %v: %v", filename, err)
			}
			if err := output(filename, targetExt, buf.Bytes()); err != nil {
				return err
			}
		}
		if *jsonOut {
			jsonSong, err := json.Marshal(song)
			if err != nil {
				return fmt.Errorf("could not marshal the song as a json file: %v", err)
			}
			if err := output(filename, ".json", jsonSong); err != nil {
				return err
			}
		}
		if *yamlOut {
			yamlSong, err := yaml.Marshal(song)
			if err != nil {
				return fmt.Errorf("could not marshal the song as a yaml file: %v", err)
			}
			if err := output(filename, ".yml", yamlSong); err != nil {
				return err
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if err := process(param); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// readSong loads a song from a tablature file, or from a yaml or json
// dump produced by this tool.
func readSong(filename string) (*guitarpro.Song, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".yml", ".yaml":
		contents, err := os.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("could not read file %v: %v", filename, err)
		}
		var song guitarpro.Song
		if errJSON := json.Unmarshal(contents, &song); errJSON != nil {
			if errYaml := yaml.Unmarshal(contents, &song); errYaml != nil {
				return nil, fmt.Errorf("song could not be unmarshaled as a .json (%v) or .yml (%v)", errJSON, errYaml)
			}
		}
		return &song, nil
	default:
		song, err := guitarpro.ParseFile(filename)
		if err != nil {
			return nil, fmt.Errorf("could not parse %v: %v", filename, err)
		}
		return song, nil
	}
}

func targetVersion(ext string) guitarpro.Version {
	switch ext {
	case ".gp3":
		return guitarpro.Version{Major: 3}
	case ".gp4":
		return guitarpro.Version{Major: 4, Patch: 6}
	default:
		return guitarpro.Version{Major: 5, Minor: 1}
	}
}
