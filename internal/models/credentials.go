package models

// Credentials — пара токенов, которую клиент хранит между перезапусками.
//
// Описание:
//   - Access — короткоживущий JWT для авторизации запросов к бэкенду;
//   - Refresh — долгоживущий токен, используется только для выпуска нового Access.
//
// Инвариант: либо оба токена заданы, либо пара считается отсутствующей.
type Credentials struct {
	Access  string
	Refresh string
}

// Complete сообщает, что пара полная (частичное состояние приравнивается к отсутствию).
func (c Credentials) Complete() bool {
	return c.Access != "" && c.Refresh != ""
}
