package mock_generator

import (
	"encoding/json"
	"github.com/MonsefRH/E-learn/application/ports/outbound"
	"os"
)

type LessonReader interface {
	Read() (*MockLesson, error)
}

type fileLessonReader struct {
	logger   outbound.LoggerPort
	fileName string
}

func NewFileLessonReader(logger outbound.LoggerPort, fileName string) LessonReader {
	return &fileLessonReader{
		logger:   logger,
		fileName: fileName,
	}
}

func (f *fileLessonReader) Read() (*MockLesson, error) {
	file, err := os.Open(f.fileName)
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			f.logger.Error(err, "failed to close file")
		}
	}(file)

	var lesson MockLesson
	if err := json.NewDecoder(file).Decode(&lesson); err != nil {
		f.logger.Error(err, "failed to decode json")
		return nil, err
	}

	return &lesson, nil
}
