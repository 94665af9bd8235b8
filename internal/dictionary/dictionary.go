package dictionary

import (
	"bufio"
	"encoding/json"
	"io"
	"math/rand/v2"
	"os"

	"github.com/LdDl/strokematch/strokematch"
	"github.com/pkg/errors"
)

var (
	ErrEmpty    = errors.New("dictionary is empty")
	ErrNotFound = errors.New("character not found")
)

// Load reads dictionary entries. Both a JSON array of entries and newline-delimited entries (one per line) are accepted.
// Entries which fail validation are rejected with the error pointing to their position
func Load(r io.Reader) ([]strokematch.Character, error) {
	reader := bufio.NewReader(r)
	first, err := peekNonSpace(reader)
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmpty
		}
		return nil, errors.Wrap(err, "can't read dictionary")
	}

	var characters []strokematch.Character
	decoder := json.NewDecoder(reader)
	if first == '[' {
		if err := decoder.Decode(&characters); err != nil {
			return nil, errors.Wrap(err, "can't decode dictionary")
		}
	} else {
		for {
			var character strokematch.Character
			err := decoder.Decode(&character)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, errors.Wrapf(err, "can't decode dictionary entry #%d", len(characters))
			}
			characters = append(characters, character)
		}
	}
	if len(characters) == 0 {
		return nil, ErrEmpty
	}
	for i, character := range characters {
		if err := character.Validate(); err != nil {
			return nil, errors.Wrapf(err, "dictionary entry #%d", i)
		}
	}
	return characters, nil
}

// LoadFile reads dictionary from file
func LoadFile(path string) ([]strokematch.Character, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open dictionary")
	}
	defer file.Close()
	return Load(file)
}

// Find returns entry by its identifier
func Find(characters []strokematch.Character, id string) (strokematch.Character, error) {
	for _, character := range characters {
		if character.ID == id {
			return character, nil
		}
	}
	return strokematch.Character{}, errors.Wrapf(ErrNotFound, "'%s'", id)
}

// Pick returns random entry
func Pick(characters []strokematch.Character, rng *rand.Rand) (strokematch.Character, error) {
	if len(characters) == 0 {
		return strokematch.Character{}, ErrEmpty
	}
	return characters[rng.IntN(len(characters))], nil
}

// LoadStrokes reads user strokes encoded as [[[x, y], ...], ...]
func LoadStrokes(r io.Reader) ([]strokematch.Stroke, error) {
	var strokes []strokematch.Stroke
	if err := json.NewDecoder(r).Decode(&strokes); err != nil {
		return nil, errors.Wrap(err, "can't decode strokes")
	}
	return strokes, nil
}

// LoadStrokesFile reads user strokes from file
func LoadStrokesFile(path string) ([]strokematch.Stroke, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "can't open strokes")
	}
	defer file.Close()
	return LoadStrokes(file)
}

func peekNonSpace(reader *bufio.Reader) (byte, error) {
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, reader.UnreadByte()
	}
}
