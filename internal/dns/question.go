package dns

// Question represents a DNS question section entry (RFC 1035 Section 4.1.2).
type Question struct {
	Name   Name
	QType  QType
	QClass QClass
}

// Marshal appends the question's wire representation to w.
func (q Question) Marshal(w *Writer) error {
	if err := WriteName(w, q.Name); err != nil {
		return err
	}
	w.WriteU16(uint16(q.QType))
	w.WriteU16(uint16(q.QClass))
	return nil
}

// ReadQuestion decodes a question starting at the reader's cursor.
func ReadQuestion(r *Reader) (Question, error) {
	name, err := ReadName(r)
	if err != nil {
		return Question{}, err
	}
	rawType, err := r.ReadU16()
	if err != nil {
		return Question{}, err
	}
	rawClass, err := r.ReadU16()
	if err != nil {
		return Question{}, err
	}
	qtype, err := ParseQType(rawType)
	if err != nil {
		return Question{}, err
	}
	qclass, err := ParseQClass(rawClass)
	if err != nil {
		return Question{}, err
	}
	return Question{Name: name, QType: qtype, QClass: qclass}, nil
}
