package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArray - пользовательский тип для работы с JSONB
type StringArray []string

// Scan реализует интерфейс sql.Scanner для StringArray
// Используется GORM для чтения JSONB данных из базы
func (o *StringArray) Scan(value interface{}) error {
	// Обработка NULL значений из базы данных
	if value == nil {
		*o = StringArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	// Обработка пустого массива байтов
	if len(bytes) == 0 {
		*o = StringArray{}
		return nil
	}

	return json.Unmarshal(bytes, o)
}

// Value реализует интерфейс driver.Valuer для StringArray
func (o StringArray) Value() (driver.Value, error) {
	if len(o) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(o)
}

// Contains проверяет, содержится ли строка в массиве
func (o StringArray) Contains(s string) bool {
	for _, v := range o {
		if v == s {
			return true
		}
	}
	return false
}

// Remove возвращает новый массив без указанной строки
func (o StringArray) Remove(s string) StringArray {
	result := make(StringArray, 0, len(o))
	for _, v := range o {
		if v != s {
			result = append(result, v)
		}
	}
	return result
}

// JSONMap - пользовательский тип для произвольных JSONB-объектов
// (состояние вопроса, commit_cmds и т.п.)
type JSONMap map[string]interface{}

// Scan реализует интерфейс sql.Scanner для JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// CommitCmds - список команд коммита (каждая команда — JSON-объект с полем "cmd")
type CommitCmds []JSONMap

// Scan реализует интерфейс sql.Scanner для CommitCmds
func (c *CommitCmds) Scan(value interface{}) error {
	if value == nil {
		*c = CommitCmds{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*c = CommitCmds{}
		return nil
	}

	return json.Unmarshal(bytes, c)
}

// Value реализует интерфейс driver.Valuer для CommitCmds
func (c CommitCmds) Value() (driver.Value, error) {
	if len(c) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}
